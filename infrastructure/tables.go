package infrastructure

import (
	_ "embed"
	"encoding/json"
	"fmt"
	"sort"
	"strings"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"
	"github.com/tidwall/gjson"
)

// TableSchema is the JSON form of a table definition in table_schema.json
type TableSchema struct {
	TableName              string                 `json:"TableName"`
	AttributeDefinitions   []AttributeDefinition  `json:"AttributeDefinitions"`
	KeySchema              []KeySchemaElement     `json:"KeySchema"`
	BillingMode            string                 `json:"BillingMode,omitempty"`
	ProvisionedThroughput  *Throughput            `json:"ProvisionedThroughput,omitempty"`
	GlobalSecondaryIndexes []GlobalSecondaryIndex `json:"GlobalSecondaryIndexes,omitempty"`
}

type AttributeDefinition struct {
	AttributeName string `json:"AttributeName"`
	AttributeType string `json:"AttributeType"`
}

type KeySchemaElement struct {
	AttributeName string `json:"AttributeName"`
	KeyType       string `json:"KeyType"`
}

type Throughput struct {
	ReadCapacityUnits  int64 `json:"ReadCapacityUnits"`
	WriteCapacityUnits int64 `json:"WriteCapacityUnits"`
}

type GlobalSecondaryIndex struct {
	IndexName             string             `json:"IndexName"`
	KeySchema             []KeySchemaElement `json:"KeySchema"`
	Projection            Projection         `json:"Projection"`
	ProvisionedThroughput *Throughput        `json:"ProvisionedThroughput,omitempty"`
}

type Projection struct {
	ProjectionType string `json:"ProjectionType"`
}

//go:embed table_schema.json
var tablesSchema []byte

// SchemaNames lists the tables defined in table_schema.json
func SchemaNames() []string {
	var names []string
	gjson.ParseBytes(tablesSchema).ForEach(func(key, _ gjson.Result) bool {
		names = append(names, key.String())
		return true
	})
	sort.Strings(names)
	return names
}

// GetTables returns the create input for a prefixed table name, for example
// "dev_appointments" resolves the "appointments" schema
func GetTables(tableName string) (*dynamodb.CreateTableInput, error) {
	schemaKey := extractBaseTableName(tableName)

	tableJSON := gjson.GetBytes(tablesSchema, schemaKey)
	if !tableJSON.Exists() {
		return nil, fmt.Errorf("table schema not found for key: %s", schemaKey)
	}

	var schema TableSchema
	if err := json.Unmarshal([]byte(tableJSON.Raw), &schema); err != nil {
		return nil, fmt.Errorf("failed to unmarshal schema JSON: %w", err)
	}
	schema.TableName = tableName

	return schema.ToDynamoInput(), nil
}

// IndexNames returns the secondary index names declared for a prefixed table
func IndexNames(tableName string) []string {
	var names []string
	for _, idx := range gjson.GetBytes(tablesSchema, extractBaseTableName(tableName)+".GlobalSecondaryIndexes.#.IndexName").Array() {
		names = append(names, idx.String())
	}
	return names
}

// extractBaseTableName drops the environment prefix of a table name
func extractBaseTableName(tableName string) string {
	if i := strings.LastIndex(tableName, "_"); i >= 0 {
		return tableName[i+1:]
	}
	return tableName
}

func keySchema(elements []KeySchemaElement) []types.KeySchemaElement {
	out := make([]types.KeySchemaElement, 0, len(elements))
	for _, k := range elements {
		out = append(out, types.KeySchemaElement{
			AttributeName: aws.String(k.AttributeName),
			KeyType:       types.KeyType(k.KeyType),
		})
	}
	return out
}

func throughput(t *Throughput) *types.ProvisionedThroughput {
	if t == nil {
		return nil
	}
	return &types.ProvisionedThroughput{
		ReadCapacityUnits:  aws.Int64(t.ReadCapacityUnits),
		WriteCapacityUnits: aws.Int64(t.WriteCapacityUnits),
	}
}

// ToDynamoInput converts the schema to a DynamoDB create request
func (ts *TableSchema) ToDynamoInput() *dynamodb.CreateTableInput {
	attrDefs := make([]types.AttributeDefinition, 0, len(ts.AttributeDefinitions))
	for _, a := range ts.AttributeDefinitions {
		attrDefs = append(attrDefs, types.AttributeDefinition{
			AttributeName: aws.String(a.AttributeName),
			AttributeType: types.ScalarAttributeType(a.AttributeType),
		})
	}

	billing := types.BillingModePayPerRequest
	if ts.BillingMode != "" {
		billing = types.BillingMode(ts.BillingMode)
	}
	provisioned := billing == types.BillingModeProvisioned

	var gsis []types.GlobalSecondaryIndex
	for _, g := range ts.GlobalSecondaryIndexes {
		gsi := types.GlobalSecondaryIndex{
			IndexName: aws.String(g.IndexName),
			KeySchema: keySchema(g.KeySchema),
			Projection: &types.Projection{
				ProjectionType: types.ProjectionType(g.Projection.ProjectionType),
			},
		}
		if provisioned {
			gsi.ProvisionedThroughput = throughput(g.ProvisionedThroughput)
		}
		gsis = append(gsis, gsi)
	}

	input := &dynamodb.CreateTableInput{
		TableName:              aws.String(ts.TableName),
		AttributeDefinitions:   attrDefs,
		KeySchema:              keySchema(ts.KeySchema),
		BillingMode:            billing,
		GlobalSecondaryIndexes: gsis,
	}
	if provisioned {
		input.ProvisionedThroughput = throughput(ts.ProvisionedThroughput)
	}
	return input
}
