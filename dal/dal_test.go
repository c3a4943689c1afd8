package dal

import (
	"fieldfuze-scheduler/models"
	"testing"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/stretchr/testify/suite"
)

// DALTestSuite defines a test suite for DAL helpers
type DALTestSuite struct {
	suite.Suite
}

func TestDALTestSuite(t *testing.T) {
	suite.Run(t, new(DALTestSuite))
}

func (suite *DALTestSuite) TestKeyAttribute() {
	testCases := []struct {
		name     string
		keyType  models.AttributeType
		expected types.AttributeValue
	}{
		{"String key", models.StringType, &types.AttributeValueMemberS{Value: "42"}},
		{"Number key", models.NumberType, &types.AttributeValueMemberN{Value: "42"}},
		{"Binary key", models.BinaryType, &types.AttributeValueMemberB{Value: []byte("42")}},
	}

	for _, tc := range testCases {
		suite.Run(tc.name, func() {
			assert.Equal(suite.T(), tc.expected, keyAttribute(tc.keyType, "42"))
		})
	}
}

func (suite *DALTestSuite) TestPrimaryKey() {
	key := primaryKey(models.QueryConfig{
		TableName: "fieldfuze_appointments",
		KeyName:   "id",
		KeyValue:  "7",
		KeyType:   models.NumberType,
	})

	require.Len(suite.T(), key, 1)
	assert.Equal(suite.T(), &types.AttributeValueMemberN{Value: "7"}, key["id"])
}

func (suite *DALTestSuite) TestBuildUpdateExpressionIsSorted() {
	expression, names, values, err := buildUpdateExpression(map[string]interface{}{
		"startDate":   int64(100),
		"endDate":     int64(200),
		"technicians": []string{},
	})

	require.NoError(suite.T(), err)
	assert.Equal(suite.T(), "SET #endDate = :endDate, #startDate = :startDate, #technicians = :technicians", expression)
	assert.Equal(suite.T(), "startDate", names["#startDate"])
	assert.Equal(suite.T(), &types.AttributeValueMemberN{Value: "100"}, values[":startDate"])
	assert.Len(suite.T(), values, 3)
}

func (suite *DALTestSuite) TestBuildScanInputWithoutFilter() {
	input, err := buildScanInput("fieldfuze_technicians", nil)

	require.NoError(suite.T(), err)
	assert.Equal(suite.T(), "fieldfuze_technicians", aws.ToString(input.TableName))
	assert.Nil(suite.T(), input.FilterExpression)
	assert.Nil(suite.T(), input.ExpressionAttributeValues)
}

func (suite *DALTestSuite) TestBuildScanInputWithFilter() {
	filter := &models.ScanFilter{
		Expression: "#start <= :end AND #end >= :start",
		Names:      map[string]string{"#start": "startDate", "#end": "endDate"},
		Values:     map[string]interface{}{":start": int64(10), ":end": int64(20)},
	}

	input, err := buildScanInput("fieldfuze_appointments", filter)

	require.NoError(suite.T(), err)
	assert.Equal(suite.T(), filter.Expression, aws.ToString(input.FilterExpression))
	assert.Equal(suite.T(), filter.Names, input.ExpressionAttributeNames)
	assert.Equal(suite.T(), &types.AttributeValueMemberN{Value: "20"}, input.ExpressionAttributeValues[":end"])
}

func TestDALContainer(t *testing.T) {
	client := &DynamoDBClient{}
	container := &DALContainer{databaseClient: client}

	assert.Equal(t, client, container.GetDatabaseClient())
}
