package driver

const (
	SaveChunkQuery = `
		MERGE (c:Chunk {uuid: $uuid})
		SET c.text = $text,
			c.ordinal = $ordinal,
			c.filename = $filename,
			c.document_id = $document_id,
			c.page_number = $page_number,
			c.start = $start,
			c.end = $end,
			c.created_at = $created_at,
			c.embedding = $embedding
		RETURN c.uuid AS uuid
	`

	SaveEntityQuery = `
		MERGE (e:Entity {name: $name})
		ON CREATE SET e.uuid = $uuid, e.created_at = $created_at
		SET e.entity_type = $entity_type
		RETURN e.name AS name
	`

	SaveMentionEdgeQuery = `
		MATCH (c:Chunk {uuid: $chunk_uuid})
		MATCH (e:Entity {name: $entity_name})
		MERGE (c)-[m:MENTIONS]->(e)
		ON CREATE SET m.uuid = $uuid, m.created_at = $created_at
		RETURN m.uuid AS uuid
	`

	// Cypher cannot parameterize relationship types, so the type is
	// interpolated. Callers must restrict it to a closed schema before
	// formatting.
	SaveRelationEdgeQueryTemplate = `
		MATCH (s:Entity {name: $source_name})
		MATCH (t:Entity {name: $target_name})
		MERGE (s)-[r:%s]->(t)
		ON CREATE SET r.uuid = $uuid, r.created_at = $created_at
		RETURN r.uuid AS uuid
	`

	// Column aliases avoid reserved Cypher keywords: END (and the rest of
	// the CASE family) cannot appear as a bare identifier, even though
	// node.end is a valid property access.
	VectorSearchQuery = `
		CALL db.index.vector.queryNodes('chunk_vector_index', $limit, $embedding)
		YIELD node, score
		RETURN node.text AS text,
			node.filename AS filename,
			node.page_number AS page_number,
			node.start AS start_time,
			node.end AS end_time,
			score
	`

	ProjectGraphQuery = `
		MATCH (n)-[r]->(m)
		RETURN n, r, m
		LIMIT $limit
	`
)
