package store

import (
	"context"
	"errors"
	"fmt"

	"ecgenius/config"
	"ecgenius/models"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/feature/dynamodb/attributevalue"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"
)

// DynamoAPI DynamoStore 用到的 DynamoDB 客户端子集
type DynamoAPI interface {
	PutItem(ctx context.Context, params *dynamodb.PutItemInput, optFns ...func(*dynamodb.Options)) (*dynamodb.PutItemOutput, error)
	GetItem(ctx context.Context, params *dynamodb.GetItemInput, optFns ...func(*dynamodb.Options)) (*dynamodb.GetItemOutput, error)
	UpdateItem(ctx context.Context, params *dynamodb.UpdateItemInput, optFns ...func(*dynamodb.Options)) (*dynamodb.UpdateItemOutput, error)
}

// guardCondition 记录存在且守卫未置位
const guardCondition = "attribute_exists(prediction_id) AND (attribute_not_exists(is_already_visited) OR is_already_visited = :unvisited)"

// DynamoStore 以 prediction_id 为分区键的 DynamoDB 表
type DynamoStore struct {
	client DynamoAPI
	table  string
}

// NewDynamoStore 使用给定客户端创建存储
func NewDynamoStore(client DynamoAPI, table string) *DynamoStore {
	return &DynamoStore{client: client, table: table}
}

// NewDynamoStoreFromConfig 按默认凭证链与配置的区域创建存储
// endpoint 非空时指向 DynamoDB Local 等兼容服务
func NewDynamoStoreFromConfig(ctx context.Context, cfg config.StoreConfig) (*DynamoStore, error) {
	awsCfg, err := awsconfig.LoadDefaultConfig(ctx, awsconfig.WithRegion(cfg.Region))
	if err != nil {
		return nil, fmt.Errorf("load aws config: %w", err)
	}
	client := dynamodb.NewFromConfig(awsCfg, func(o *dynamodb.Options) {
		if cfg.Endpoint != "" {
			o.BaseEndpoint = aws.String(cfg.Endpoint)
		}
	})
	return NewDynamoStore(client, cfg.Table), nil
}

func (s *DynamoStore) key(predictionID string) map[string]types.AttributeValue {
	return map[string]types.AttributeValue{
		"prediction_id": &types.AttributeValueMemberS{Value: predictionID},
	}
}

func (s *DynamoStore) Put(ctx context.Context, record *models.PredictionRecord) error {
	item, err := attributevalue.MarshalMap(record)
	if err != nil {
		return wrap("put", fmt.Errorf("marshal record: %w", err))
	}
	_, err = s.client.PutItem(ctx, &dynamodb.PutItemInput{
		TableName: aws.String(s.table),
		Item:      item,
	})
	return wrap("put", err)
}

func (s *DynamoStore) Get(ctx context.Context, predictionID string) (*models.PredictionRecord, error) {
	out, err := s.client.GetItem(ctx, &dynamodb.GetItemInput{
		TableName:      aws.String(s.table),
		Key:            s.key(predictionID),
		ConsistentRead: aws.Bool(true),
	})
	if err != nil {
		return nil, wrap("get", err)
	}
	if len(out.Item) == 0 {
		return nil, nil
	}
	var rec models.PredictionRecord
	if err := attributevalue.UnmarshalMap(out.Item, &rec); err != nil {
		return nil, wrap("get", fmt.Errorf("unmarshal record: %w", err))
	}
	return &rec, nil
}

func (s *DynamoStore) RegisterPatient(ctx context.Context, predictionID string, info models.PatientInfo) (*models.PredictionRecord, error) {
	return s.guardedUpdate(ctx, "register_patient", predictionID,
		"SET #name = :name, #age = :age, #gender = :gender, #phone = :phone, #med = :med, #visited = :visited",
		map[string]string{
			"#name":    "name",
			"#age":     "age",
			"#gender":  "gender",
			"#phone":   "phone_no",
			"#med":     "previous_medication",
			"#visited": "is_already_visited",
		},
		map[string]types.AttributeValue{
			":name":   &types.AttributeValueMemberS{Value: info.Name},
			":age":    &types.AttributeValueMemberN{Value: fmt.Sprintf("%d", int(info.Age))},
			":gender": &types.AttributeValueMemberS{Value: info.Gender},
			":phone":  &types.AttributeValueMemberS{Value: info.PhoneNo},
			":med":    &types.AttributeValueMemberS{Value: info.PreviousMedication},
		},
		ErrAlreadyRegistered)
}

func (s *DynamoStore) UpdatePatientInfo(ctx context.Context, predictionID string, info models.PatientUpdate) (*models.PredictionRecord, error) {
	return s.guardedUpdate(ctx, "update_patient_info", predictionID,
		"SET #name = :name, #age = :age, #gender = :gender, #med = :med, #visited = :visited",
		map[string]string{
			"#name":    "name",
			"#age":     "age",
			"#gender":  "gender",
			"#med":     "previous_medication",
			"#visited": "is_already_visited",
		},
		map[string]types.AttributeValue{
			":name":   &types.AttributeValueMemberS{Value: info.Name},
			":age":    &types.AttributeValueMemberN{Value: fmt.Sprintf("%d", int(info.Age))},
			":gender": &types.AttributeValueMemberS{Value: info.Gender},
			":med":    &types.AttributeValueMemberS{Value: info.PreviousMedication},
		},
		ErrAlreadyVisited)
}

// guardedUpdate 单次 UpdateItem：ConditionExpression 同时完成存在性与守卫判断
func (s *DynamoStore) guardedUpdate(
	ctx context.Context,
	op, predictionID, updateExpr string,
	names map[string]string,
	values map[string]types.AttributeValue,
	guardErr error,
) (*models.PredictionRecord, error) {
	values[":visited"] = &types.AttributeValueMemberBOOL{Value: true}
	values[":unvisited"] = &types.AttributeValueMemberBOOL{Value: false}

	out, err := s.client.UpdateItem(ctx, &dynamodb.UpdateItemInput{
		TableName:                           aws.String(s.table),
		Key:                                 s.key(predictionID),
		UpdateExpression:                    aws.String(updateExpr),
		ConditionExpression:                 aws.String(guardCondition),
		ExpressionAttributeNames:            names,
		ExpressionAttributeValues:           values,
		ReturnValues:                        types.ReturnValueAllNew,
		ReturnValuesOnConditionCheckFailure: types.ReturnValuesOnConditionCheckFailureAllOld,
	})
	if err != nil {
		var ccf *types.ConditionalCheckFailedException
		if errors.As(err, &ccf) {
			if len(ccf.Item) == 0 {
				return nil, ErrNotFound
			}
			return nil, guardErr
		}
		return nil, wrap(op, err)
	}

	var rec models.PredictionRecord
	if err := attributevalue.UnmarshalMap(out.Attributes, &rec); err != nil {
		return nil, wrap(op, fmt.Errorf("unmarshal record: %w", err))
	}
	return &rec, nil
}

func (s *DynamoStore) Close() error { return nil }
