package knowledge

const extractionPrompt = `You are a knowledge graph extraction system.

Extract entities and the relations between them from the text below.

Allowed entity types: %s
Allowed relation types: %s

Respond with ONLY a JSON object of this shape:
{
  "entities": [{"name": "...", "type": "..."}],
  "relations": [{"source": "...", "target": "...", "relation": "..."}]
}

Use entity names exactly as they appear in the text. Extract at most 10
relations. If nothing can be extracted, return empty lists.

Text:
%s`

const synthesisPrompt = `You are a helpful assistant answering questions about the user's uploaded documents and videos.

Answer the question using ONLY the context below. If the context does not
contain the answer, say so plainly.

Context:
%s

Question: %s

Answer:`
