package infrastructure

import (
	"testing"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSchemaNames(t *testing.T) {
	assert.Equal(t, []string{"appointments", "technicians"}, SchemaNames())
}

func TestGetTablesAppointments(t *testing.T) {
	input, err := GetTables("dev_appointments")
	require.NoError(t, err)

	assert.Equal(t, "dev_appointments", aws.ToString(input.TableName))
	assert.Equal(t, types.BillingModePayPerRequest, input.BillingMode)
	assert.Nil(t, input.ProvisionedThroughput)
	require.Len(t, input.KeySchema, 1)
	assert.Equal(t, "id", aws.ToString(input.KeySchema[0].AttributeName))
	assert.Equal(t, types.KeyTypeHash, input.KeySchema[0].KeyType)
	assert.Len(t, input.AttributeDefinitions, 3)
	assert.Equal(t, types.ScalarAttributeTypeN, input.AttributeDefinitions[0].AttributeType)

	require.Len(t, input.GlobalSecondaryIndexes, 1)
	gsi := input.GlobalSecondaryIndexes[0]
	assert.Equal(t, "jobId-index", aws.ToString(gsi.IndexName))
	assert.Equal(t, types.ProjectionTypeAll, gsi.Projection.ProjectionType)
	assert.Len(t, gsi.KeySchema, 2)
	assert.Nil(t, gsi.ProvisionedThroughput)
}

func TestGetTablesTechnicians(t *testing.T) {
	input, err := GetTables("prod_technicians")
	require.NoError(t, err)

	assert.Equal(t, "prod_technicians", aws.ToString(input.TableName))
	assert.Empty(t, input.GlobalSecondaryIndexes)
}

func TestGetTablesUnknown(t *testing.T) {
	_, err := GetTables("dev_users")
	assert.Error(t, err)
}

func TestIndexNames(t *testing.T) {
	assert.Equal(t, []string{"jobId-index"}, IndexNames("dev_appointments"))
	assert.Empty(t, IndexNames("dev_technicians"))
}

func TestExtractBaseTableName(t *testing.T) {
	assert.Equal(t, "appointments", extractBaseTableName("dev_appointments"))
	assert.Equal(t, "technicians", extractBaseTableName("technicians"))
}

func TestProvisionedSchema(t *testing.T) {
	schema := TableSchema{
		TableName:             "t",
		KeySchema:             []KeySchemaElement{{AttributeName: "id", KeyType: "HASH"}},
		BillingMode:           "PROVISIONED",
		ProvisionedThroughput: &Throughput{ReadCapacityUnits: 5, WriteCapacityUnits: 2},
		GlobalSecondaryIndexes: []GlobalSecondaryIndex{{
			IndexName:             "i",
			KeySchema:             []KeySchemaElement{{AttributeName: "x", KeyType: "HASH"}},
			Projection:            Projection{ProjectionType: "KEYS_ONLY"},
			ProvisionedThroughput: &Throughput{ReadCapacityUnits: 1, WriteCapacityUnits: 1},
		}},
	}

	input := schema.ToDynamoInput()

	assert.Equal(t, types.BillingModeProvisioned, input.BillingMode)
	assert.Equal(t, int64(5), aws.ToInt64(input.ProvisionedThroughput.ReadCapacityUnits))
	assert.Equal(t, int64(1), aws.ToInt64(input.GlobalSecondaryIndexes[0].ProvisionedThroughput.ReadCapacityUnits))
}
