package store

import (
	"context"
	"errors"
	"testing"

	"ecgenius/models"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/feature/dynamodb/attributevalue"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fakeDynamo 记录请求并返回预设结果
type fakeDynamo struct {
	putInput    *dynamodb.PutItemInput
	getOutput   *dynamodb.GetItemOutput
	updateInput *dynamodb.UpdateItemInput
	updateOut   *dynamodb.UpdateItemOutput
	err         error
}

func (f *fakeDynamo) PutItem(_ context.Context, in *dynamodb.PutItemInput, _ ...func(*dynamodb.Options)) (*dynamodb.PutItemOutput, error) {
	f.putInput = in
	return &dynamodb.PutItemOutput{}, f.err
}

func (f *fakeDynamo) GetItem(_ context.Context, _ *dynamodb.GetItemInput, _ ...func(*dynamodb.Options)) (*dynamodb.GetItemOutput, error) {
	if f.err != nil {
		return nil, f.err
	}
	return f.getOutput, nil
}

func (f *fakeDynamo) UpdateItem(_ context.Context, in *dynamodb.UpdateItemInput, _ ...func(*dynamodb.Options)) (*dynamodb.UpdateItemOutput, error) {
	f.updateInput = in
	if f.err != nil {
		return nil, f.err
	}
	return f.updateOut, nil
}

func TestDynamoStore_PutMarshalsLayout(t *testing.T) {
	fake := &fakeDynamo{}
	s := NewDynamoStore(fake, "ECGeniusPredictions")

	require.NoError(t, s.Put(context.Background(), newRecord("20261018-000000000001")))
	require.NotNil(t, fake.putInput)
	assert.Equal(t, "ECGeniusPredictions", aws.ToString(fake.putInput.TableName))

	item := fake.putInput.Item
	assert.Equal(t, &types.AttributeValueMemberS{Value: "20261018-000000000001"}, item["prediction_id"])
	assert.Equal(t, &types.AttributeValueMemberBOOL{Value: false}, item["is_already_visited"])
	samples, ok := item["samples"].(*types.AttributeValueMemberL)
	require.True(t, ok)
	assert.Len(t, samples.Value, 3)
	_, hasName := item["name"]
	assert.False(t, hasName, "patient fields are absent until registration")
}

func TestDynamoStore_GetMissing(t *testing.T) {
	s := NewDynamoStore(&fakeDynamo{getOutput: &dynamodb.GetItemOutput{}}, "t")
	rec, err := s.Get(context.Background(), "20261018-00000000dead")
	require.NoError(t, err)
	assert.Nil(t, rec)
}

func TestDynamoStore_Get(t *testing.T) {
	item, err := attributevalue.MarshalMap(newRecord("20261018-000000000001"))
	require.NoError(t, err)
	s := NewDynamoStore(&fakeDynamo{getOutput: &dynamodb.GetItemOutput{Item: item}}, "t")

	rec, err := s.Get(context.Background(), "20261018-000000000001")
	require.NoError(t, err)
	require.NotNil(t, rec)
	assert.Equal(t, []float64{0.1, 0.2, 0.3}, []float64(rec.Samples))
	assert.Equal(t, 72.0, rec.HeartRate)
}

func TestDynamoStore_RegisterPatientUsesCondition(t *testing.T) {
	updated := newRecord("20261018-000000000001")
	models.PatientInfo{Name: "Asha", Age: 34, Gender: "female", PhoneNo: "9876543210", PreviousMedication: "none"}.ApplyTo(updated)
	attrs, err := attributevalue.MarshalMap(updated)
	require.NoError(t, err)

	fake := &fakeDynamo{updateOut: &dynamodb.UpdateItemOutput{Attributes: attrs}}
	s := NewDynamoStore(fake, "t")

	rec, err := s.RegisterPatient(context.Background(), "20261018-000000000001",
		models.PatientInfo{Name: "Asha", Age: 34, Gender: "female", PhoneNo: "9876543210", PreviousMedication: "none"})
	require.NoError(t, err)
	assert.Equal(t, "Asha", *rec.Name)
	assert.True(t, rec.IsAlreadyVisited)

	in := fake.updateInput
	require.NotNil(t, in)
	assert.Equal(t, guardCondition, aws.ToString(in.ConditionExpression))
	assert.Equal(t, "phone_no", in.ExpressionAttributeNames["#phone"])
	assert.Equal(t, &types.AttributeValueMemberN{Value: "34"}, in.ExpressionAttributeValues[":age"])
	assert.Equal(t, &types.AttributeValueMemberBOOL{Value: false}, in.ExpressionAttributeValues[":unvisited"])
	assert.Equal(t, types.ReturnValuesOnConditionCheckFailureAllOld, in.ReturnValuesOnConditionCheckFailure)
}

func TestDynamoStore_ConditionFailures(t *testing.T) {
	old, err := attributevalue.MarshalMap(newRecord("20261018-000000000001"))
	require.NoError(t, err)

	s := NewDynamoStore(&fakeDynamo{err: &types.ConditionalCheckFailedException{Message: aws.String("failed"), Item: old}}, "t")
	_, err = s.RegisterPatient(context.Background(), "20261018-000000000001", models.PatientInfo{Name: "x"})
	assert.ErrorIs(t, err, ErrAlreadyRegistered)

	_, err = s.UpdatePatientInfo(context.Background(), "20261018-000000000001", models.PatientUpdate{Name: "x"})
	assert.ErrorIs(t, err, ErrAlreadyVisited)

	// 旧值为空说明记录不存在
	s = NewDynamoStore(&fakeDynamo{err: &types.ConditionalCheckFailedException{Message: aws.String("failed")}}, "t")
	_, err = s.RegisterPatient(context.Background(), "20261018-00000000dead", models.PatientInfo{Name: "x"})
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestDynamoStore_TransportError(t *testing.T) {
	s := NewDynamoStore(&fakeDynamo{err: errors.New("RequestTimeout")}, "t")

	_, err := s.Get(context.Background(), "20261018-000000000001")
	assert.True(t, IsStorageError(err))

	err = s.Put(context.Background(), newRecord("20261018-000000000001"))
	assert.True(t, IsStorageError(err))

	_, err = s.RegisterPatient(context.Background(), "20261018-000000000001", models.PatientInfo{})
	var se *StorageError
	require.True(t, errors.As(err, &se))
	assert.Equal(t, "register_patient", se.Op)
}
