package driver

import (
	"context"
	"fmt"
	"log"

	"github.com/neo4j/neo4j-go-driver/v5/neo4j"
)

type Neo4jDriver struct {
	Driver     neo4j.DriverWithContext
	Database   string
	VectorDims int
}

func NewNeo4jDriver(uri, username, password, database string, vectorDims int) (*Neo4jDriver, error) {
	driver, err := neo4j.NewDriverWithContext(uri, neo4j.BasicAuth(username, password, ""))
	if err != nil {
		return nil, err
	}

	if err := driver.VerifyConnectivity(context.Background()); err != nil {
		return nil, fmt.Errorf("could not reach Neo4j at %s: %w", uri, err)
	}

	log.Println("Connected to Neo4j")
	return &Neo4jDriver{Driver: driver, Database: database, VectorDims: vectorDims}, nil
}

func (d *Neo4jDriver) Close(ctx context.Context) error {
	return d.Driver.Close(ctx)
}

func (d *Neo4jDriver) ExecuteQuery(ctx context.Context, query string, params map[string]interface{}) (neo4j.EagerResult, error) {
	result, err := neo4j.ExecuteQuery(ctx, d.Driver, query, params,
		neo4j.EagerResultTransformer, neo4j.ExecuteQueryWithDatabase(d.Database))
	if err != nil {
		return neo4j.EagerResult{}, fmt.Errorf("failed to execute query: %w", err)
	}
	return *result, nil
}

func (d *Neo4jDriver) BuildIndices(ctx context.Context) error {
	queries := []string{
		"CREATE INDEX chunk_uuid IF NOT EXISTS FOR (c:Chunk) ON (c.uuid)",
		"CREATE INDEX chunk_document IF NOT EXISTS FOR (c:Chunk) ON (c.document_id)",
		"CREATE INDEX entity_name IF NOT EXISTS FOR (e:Entity) ON (e.name)",

		fmt.Sprintf(`CREATE VECTOR INDEX chunk_vector_index IF NOT EXISTS
			FOR (c:Chunk) ON (c.embedding)
			OPTIONS {indexConfig: {
				`+"`vector.dimensions`"+`: %d,
				`+"`vector.similarity_function`"+`: 'cosine'
			}}`, d.VectorDims),
	}

	for _, q := range queries {
		if _, err := d.ExecuteQuery(ctx, q, nil); err != nil {
			// Index might already exist with a different definition; keep going.
			log.Printf("Warning: failed to create index: %v", err)
		}
	}

	return nil
}
