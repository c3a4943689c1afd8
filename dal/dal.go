package dal

import (
	"context"
	"errors"
	"fieldfuze-scheduler/models"
	"fmt"
	"sort"
	"strings"

	"fieldfuze-scheduler/utils/logger"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/feature/dynamodb/attributevalue"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"
)

// ErrItemNotFound is returned by GetItem and UpdateItem when the key does not exist.
var ErrItemNotFound = errors.New("item not found")

type DynamoDBClient struct {
	client *dynamodb.Client
	config *models.Config
	logger logger.Logger
}

// DALContainer holds the data access clients
type DALContainer struct {
	databaseClient DatabaseClientInterface
}

// NewDALContainer creates the DAL container backed by DynamoDB
func NewDALContainer(cfg *models.Config, log logger.Logger) (*DALContainer, error) {
	client, err := NewDynamoDBClient(cfg, log)
	if err != nil {
		return nil, err
	}
	return &DALContainer{databaseClient: client}, nil
}

// GetDatabaseClient returns the database client
func (c *DALContainer) GetDatabaseClient() DatabaseClientInterface {
	return c.databaseClient
}

// NewDynamoDBClient creates a new DynamoDB client
func NewDynamoDBClient(cfg *models.Config, log logger.Logger) (*DynamoDBClient, error) {
	awsCfg, err := config.LoadDefaultConfig(context.TODO(),
		config.WithRegion(cfg.AWSRegion),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to load AWS config: %w", err)
	}

	// Use static credentials if provided
	if cfg.AWSAccessKeyID != "" && cfg.AWSSecretAccessKey != "" {
		awsCfg.Credentials = aws.NewCredentialsCache(credentials.NewStaticCredentialsProvider(
			cfg.AWSAccessKeyID,
			cfg.AWSSecretAccessKey,
			"", // session token
		))
	}

	client := dynamodb.NewFromConfig(awsCfg, func(o *dynamodb.Options) {
		// Override endpoint for local DynamoDB
		if cfg.DynamoDBEndpoint != "" {
			o.BaseEndpoint = aws.String(cfg.DynamoDBEndpoint)
		}
	})

	dbClient := &DynamoDBClient{
		client: client,
		config: cfg,
		logger: log,
	}

	log.Info("✅ DynamoDB client initialized successfully")
	return dbClient, nil
}

// GetItem retrieves a single item by primary key
func (db *DynamoDBClient) GetItem(ctx context.Context, cfg models.QueryConfig, result interface{}) error {
	input := &dynamodb.GetItemInput{
		TableName: aws.String(cfg.TableName),
		Key:       primaryKey(cfg),
	}

	output, err := db.client.GetItem(ctx, input)
	if err != nil {
		db.logger.Errorf("Failed to get item: %v", err)
		return err
	}

	if output.Item == nil {
		return ErrItemNotFound
	}

	return attributevalue.UnmarshalMap(output.Item, result)
}

// UpdateItem sets the given attributes on an existing item and unmarshals the
// updated item into result when result is non-nil
func (db *DynamoDBClient) UpdateItem(ctx context.Context, cfg models.QueryConfig, updates map[string]interface{}, result interface{}) error {
	if len(updates) == 0 {
		return errors.New("no attributes to update")
	}

	expression, names, values, err := buildUpdateExpression(updates)
	if err != nil {
		return err
	}

	// Only update items that exist
	names["#pk"] = cfg.KeyName

	input := &dynamodb.UpdateItemInput{
		TableName:                 aws.String(cfg.TableName),
		Key:                       primaryKey(cfg),
		UpdateExpression:          aws.String(expression),
		ConditionExpression:       aws.String("attribute_exists(#pk)"),
		ExpressionAttributeNames:  names,
		ExpressionAttributeValues: values,
		ReturnValues:              types.ReturnValueAllNew,
	}

	output, err := db.client.UpdateItem(ctx, input)
	if err != nil {
		var condErr *types.ConditionalCheckFailedException
		if errors.As(err, &condErr) {
			return ErrItemNotFound
		}
		db.logger.Errorf("Failed to update item in %s: %v", cfg.TableName, err)
		return err
	}

	if result == nil {
		return nil
	}
	return attributevalue.UnmarshalMap(output.Attributes, result)
}

// ScanWithFilter scans the whole table, following pagination, keeping the
// items that match filter. A nil filter returns every item.
func (db *DynamoDBClient) ScanWithFilter(ctx context.Context, tableName string, filter *models.ScanFilter, results interface{}) error {
	input, err := buildScanInput(tableName, filter)
	if err != nil {
		return err
	}

	paginator := dynamodb.NewScanPaginator(db.client, input)

	var items []map[string]types.AttributeValue
	pages := 0
	for paginator.HasMorePages() {
		page, err := paginator.NextPage(ctx)
		if err != nil {
			db.logger.Errorf("Failed to scan %s: %v", tableName, err)
			return err
		}
		items = append(items, page.Items...)
		pages++
	}

	db.logger.Debugf("Scanned %s: %d items in %d pages", tableName, len(items), pages)
	return attributevalue.UnmarshalListOfMaps(items, results)
}

// CreateTable creates a table
func (db *DynamoDBClient) CreateTable(ctx context.Context, input *dynamodb.CreateTableInput) error {
	_, err := db.client.CreateTable(ctx, input)
	return err
}

// DescribeTable describes a table
func (db *DynamoDBClient) DescribeTable(ctx context.Context, tableName string) (*dynamodb.DescribeTableOutput, error) {
	input := &dynamodb.DescribeTableInput{
		TableName: aws.String(tableName),
	}
	return db.client.DescribeTable(ctx, input)
}

func keyAttribute(keyType models.AttributeType, value string) types.AttributeValue {
	switch keyType {
	case models.NumberType:
		return &types.AttributeValueMemberN{Value: value}
	case models.BinaryType:
		return &types.AttributeValueMemberB{Value: []byte(value)}
	default:
		return &types.AttributeValueMemberS{Value: value}
	}
}

func primaryKey(cfg models.QueryConfig) map[string]types.AttributeValue {
	return map[string]types.AttributeValue{
		cfg.KeyName: keyAttribute(cfg.KeyType, cfg.KeyValue),
	}
}

// buildUpdateExpression renders a SET expression with attributes in sorted order.
func buildUpdateExpression(updates map[string]interface{}) (string, map[string]string, map[string]types.AttributeValue, error) {
	fields := make([]string, 0, len(updates))
	for field := range updates {
		fields = append(fields, field)
	}
	sort.Strings(fields)

	names := make(map[string]string, len(fields))
	values := make(map[string]types.AttributeValue, len(fields))
	assignments := make([]string, 0, len(fields))

	for _, field := range fields {
		attrName := "#" + field
		attrValue := ":" + field

		av, err := attributevalue.Marshal(updates[field])
		if err != nil {
			return "", nil, nil, fmt.Errorf("failed to marshal %s: %w", field, err)
		}

		names[attrName] = field
		values[attrValue] = av
		assignments = append(assignments, attrName+" = "+attrValue)
	}

	return "SET " + strings.Join(assignments, ", "), names, values, nil
}

func buildScanInput(tableName string, filter *models.ScanFilter) (*dynamodb.ScanInput, error) {
	input := &dynamodb.ScanInput{
		TableName: aws.String(tableName),
	}
	if filter == nil || filter.Expression == "" {
		return input, nil
	}

	values, err := attributevalue.MarshalMap(filter.Values)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal filter values: %w", err)
	}

	input.FilterExpression = aws.String(filter.Expression)
	if len(filter.Names) > 0 {
		input.ExpressionAttributeNames = filter.Names
	}
	if len(values) > 0 {
		input.ExpressionAttributeValues = values
	}
	return input, nil
}
