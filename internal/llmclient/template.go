package llmclient

// DefaultTemplate is the built-in prompt template satisfying §6.2: exactly
// the two placeholders, instructing strict JSON output and the 25-word
// evidence-quote bound. Callers may load a different template file from
// disk instead; this is only the fallback when none is configured.
const DefaultTemplate = `You are extracting ontology elements from a single document chunk.

Chunk:
{{CHUNK_DTO_JSON}}

Current Schema Card:
{{SCHEMA_CARD_JSON}}

Propose classes, datatype properties, object properties, and events that
this chunk's text supports, plus any alias or reuse suggestions. Every
proposed element must carry at least one evidence record: a verbatim quote
from the chunk's text, truncated to at most 25 words. Return strict JSON
only, matching this shape exactly, with no prose before or after it:

{"chunk_id":"...","proposed_additions":{"classes":[],"datatype_properties":[],"object_properties":[],"events":[]},"reuse_instead_of_create":[],"alias_or_merge_suggestions":[],"warnings":[]}
`
