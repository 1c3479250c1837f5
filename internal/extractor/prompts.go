package extractor

// DNASystemPrompt frames the extraction request.
const DNASystemPrompt = `You are a senior acquisitions editor and sensitivity reader. Your job is to analyse a manuscript's DNA, its risks and its commercial potential for foreign-rights sales.`

// DNAPrompt is the user prompt template for DNA extraction. It takes the
// scanner hint list and the full manuscript text.
const DNAPrompt = `AUTOMATIC SIGNALS:
%s

FULL TEXT:
%s

REQUIRED ANALYSIS:
1. LANGUAGE: How heavy is the prose and how hard is it to translate? (simple / moderate / heavy)
2. PACING: How does the book flow? (slow_burn / page_turner or a short description)
3. PITCH: Produce an "X meets Y" pitch, e.g. "Harry Potter meets Sherlock Holmes".
4. RISKS: For LGBT, sexual content, substance use, violence and socio-political or religious themes, check the context of the automatic signals. Answer "present (evidence...)" or "absent".

Respond with exactly one JSON object with exactly these keys:
{
  "title": "...", "author": "...",
  "target_audience": "...", "primary_genre": "...", "subgenres": "...",
  "language_difficulty": "...", "pacing": "...", "pitch": "...",
  "lgbt": "present (evidence...) / absent",
  "sexual_content": "present (evidence...) / absent",
  "substance_use": "present (evidence...) / absent",
  "violence": "present (evidence...) / absent",
  "sociopolitical": "present (evidence...) / absent",
  "atmosphere": "...", "themes": "...", "comparable_titles": "..."
}`

// IntelSystemPrompt frames the refinement request.
const IntelSystemPrompt = `You are an intelligence analyst for a literary agency. You turn raw web research about a book into a short structured report.`

// IntelPrompt is the user prompt template for intelligence refinement.
const IntelPrompt = `RAW DATA:
%s

Extract the reader rating, page count, awards, a short author biography, known translation rights sales and a two-sentence summary. Use an empty string for anything the data does not mention.

Respond with one JSON object:
{"rating": "...", "page_count": "...", "awards": "...", "author_bio": "...", "rights_sales": "...", "summary": "..."}`
