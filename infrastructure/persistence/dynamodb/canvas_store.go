package dynamodb

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/feature/dynamodb/attributevalue"
	"github.com/aws/aws-sdk-go-v2/feature/dynamodb/expression"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"
	"go.uber.org/zap"

	"canvas-backend/domain/core/entities"
)

// CanvasStore implements ports.RemoteStore on a single DynamoDB table.
// Objects live under PK "PROJECT#<id>", SK "OBJECT#<id>"; z-order is a
// numeric ZIndex attribute the snapshot poller sorts by.
type CanvasStore struct {
	client       *dynamodb.Client
	tableName    string
	pollInterval time.Duration
	logger       *zap.Logger
}

// NewCanvasStore creates a new CanvasStore
func NewCanvasStore(client *dynamodb.Client, tableName string, pollInterval time.Duration, logger *zap.Logger) *CanvasStore {
	return &CanvasStore{
		client:       client,
		tableName:    tableName,
		pollInterval: pollInterval,
		logger:       logger,
	}
}

// objectItem is the DynamoDB item structure for one canvas object
type objectItem struct {
	PK         string `dynamodbav:"PK"`
	SK         string `dynamodbav:"SK"`
	EntityType string `dynamodbav:"EntityType"`
	ProjectID  string `dynamodbav:"ProjectID"`
	ObjectID   string `dynamodbav:"ObjectID"`
	Type       string `dynamodbav:"Type"`
	ZIndex     int    `dynamodbav:"ZIndex"`

	X        float64 `dynamodbav:"X"`
	Y        float64 `dynamodbav:"Y"`
	Rotation float64 `dynamodbav:"Rotation"`
	ScaleX   float64 `dynamodbav:"ScaleX"`
	ScaleY   float64 `dynamodbav:"ScaleY"`
	SkewX    float64 `dynamodbav:"SkewX"`
	SkewY    float64 `dynamodbav:"SkewY"`
	Opacity  float64 `dynamodbav:"Opacity"`

	Width  float64   `dynamodbav:"Width"`
	Height float64   `dynamodbav:"Height"`
	Radius float64   `dynamodbav:"Radius"`
	Points []float64 `dynamodbav:"Points,omitempty"`

	Fill          string  `dynamodbav:"Fill,omitempty"`
	Stroke        string  `dynamodbav:"Stroke,omitempty"`
	StrokeWidth   float64 `dynamodbav:"StrokeWidth"`
	ShadowColor   string  `dynamodbav:"ShadowColor,omitempty"`
	ShadowBlur    float64 `dynamodbav:"ShadowBlur"`
	ShadowOffsetX float64 `dynamodbav:"ShadowOffsetX"`
	ShadowOffsetY float64 `dynamodbav:"ShadowOffsetY"`

	Text       string  `dynamodbav:"Text,omitempty"`
	FontSize   float64 `dynamodbav:"FontSize"`
	FontFamily string  `dynamodbav:"FontFamily,omitempty"`

	ImageURL string `dynamodbav:"ImageURL,omitempty"`
	AssetKey string `dynamodbav:"AssetKey,omitempty"`

	ParentID    string `dynamodbav:"ParentID,omitempty"`
	Locked      bool   `dynamodbav:"Locked"`
	Visible     bool   `dynamodbav:"Visible"`
	IsCollapsed bool   `dynamodbav:"IsCollapsed"`

	CreatedBy string `dynamodbav:"CreatedBy"`
	CreatedAt string `dynamodbav:"CreatedAt"`
	UpdatedAt string `dynamodbav:"UpdatedAt"`
}

func projectKey(projectID string) string { return fmt.Sprintf("PROJECT#%s", projectID) }
func objectKey(objectID string) string   { return fmt.Sprintf("OBJECT#%s", objectID) }

func toItem(projectID string, obj *entities.CanvasObject, zIndex int) objectItem {
	return objectItem{
		PK:         projectKey(projectID),
		SK:         objectKey(obj.ID),
		EntityType: "CANVAS_OBJECT",
		ProjectID:  projectID,
		ObjectID:   obj.ID,
		Type:       string(obj.Type),
		ZIndex:     zIndex,

		X: obj.X, Y: obj.Y,
		Rotation: obj.Rotation,
		ScaleX:   obj.ScaleX, ScaleY: obj.ScaleY,
		SkewX: obj.SkewX, SkewY: obj.SkewY,
		Opacity: obj.Opacity,

		Width: obj.Width, Height: obj.Height, Radius: obj.Radius,
		Points: obj.Points,

		Fill: obj.Fill, Stroke: obj.Stroke, StrokeWidth: obj.StrokeWidth,
		ShadowColor: obj.ShadowColor, ShadowBlur: obj.ShadowBlur,
		ShadowOffsetX: obj.ShadowOffsetX, ShadowOffsetY: obj.ShadowOffsetY,

		Text: obj.Text, FontSize: obj.FontSize, FontFamily: obj.FontFamily,

		ImageURL: obj.ImageURL, AssetKey: obj.AssetKey,

		ParentID: obj.ParentID,
		Locked:   obj.Locked, Visible: obj.Visible, IsCollapsed: obj.IsCollapsed,

		CreatedBy: obj.CreatedBy,
		CreatedAt: obj.CreatedAt.Format(time.RFC3339Nano),
		UpdatedAt: obj.UpdatedAt.Format(time.RFC3339Nano),
	}
}

func fromItem(item objectItem) *entities.CanvasObject {
	createdAt, _ := time.Parse(time.RFC3339Nano, item.CreatedAt)
	updatedAt, _ := time.Parse(time.RFC3339Nano, item.UpdatedAt)
	return &entities.CanvasObject{
		ID:   item.ObjectID,
		Type: entities.ObjectType(item.Type),

		X: item.X, Y: item.Y,
		Rotation: item.Rotation,
		ScaleX:   item.ScaleX, ScaleY: item.ScaleY,
		SkewX: item.SkewX, SkewY: item.SkewY,
		Opacity: item.Opacity,

		Width: item.Width, Height: item.Height, Radius: item.Radius,
		Points: item.Points,

		Fill: item.Fill, Stroke: item.Stroke, StrokeWidth: item.StrokeWidth,
		ShadowColor: item.ShadowColor, ShadowBlur: item.ShadowBlur,
		ShadowOffsetX: item.ShadowOffsetX, ShadowOffsetY: item.ShadowOffsetY,

		Text: item.Text, FontSize: item.FontSize, FontFamily: item.FontFamily,

		ImageURL: item.ImageURL, AssetKey: item.AssetKey,

		ParentID: item.ParentID,
		Locked:   item.Locked, Visible: item.Visible, IsCollapsed: item.IsCollapsed,

		CreatedBy: item.CreatedBy,
		CreatedAt: createdAt,
		UpdatedAt: updatedAt,
	}
}

// Put writes a full object item
func (s *CanvasStore) Put(ctx context.Context, projectID string, obj *entities.CanvasObject, zIndex int) error {
	av, err := attributevalue.MarshalMap(toItem(projectID, obj, zIndex))
	if err != nil {
		return fmt.Errorf("failed to marshal object: %w", err)
	}

	_, err = s.client.PutItem(ctx, &dynamodb.PutItemInput{
		TableName: aws.String(s.tableName),
		Item:      av,
	})
	if err != nil {
		return fmt.Errorf("failed to put object %s: %w", obj.ID, err)
	}

	s.logger.Debug("object put",
		zap.String("project_id", projectID),
		zap.String("object_id", obj.ID),
		zap.Int("zindex", zIndex))
	return nil
}

// Patch applies a partial update to an existing item. A patch racing a
// remote delete is dropped rather than resurrecting the item.
func (s *CanvasStore) Patch(ctx context.Context, projectID, objectID string, patch entities.Patch) error {
	update, any := patchUpdate(patch)
	if !any {
		return nil
	}

	expr, err := expression.NewBuilder().
		WithUpdate(update).
		WithCondition(expression.AttributeExists(expression.Name("PK"))).
		Build()
	if err != nil {
		return fmt.Errorf("failed to build patch expression: %w", err)
	}

	_, err = s.client.UpdateItem(ctx, &dynamodb.UpdateItemInput{
		TableName: aws.String(s.tableName),
		Key: map[string]types.AttributeValue{
			"PK": &types.AttributeValueMemberS{Value: projectKey(projectID)},
			"SK": &types.AttributeValueMemberS{Value: objectKey(objectID)},
		},
		UpdateExpression:          expr.Update(),
		ConditionExpression:       expr.Condition(),
		ExpressionAttributeNames:  expr.Names(),
		ExpressionAttributeValues: expr.Values(),
	})
	if err != nil {
		var ccf *types.ConditionalCheckFailedException
		if errors.As(err, &ccf) {
			s.logger.Debug("patch target gone, dropping",
				zap.String("project_id", projectID),
				zap.String("object_id", objectID))
			return nil
		}
		return fmt.Errorf("failed to patch object %s: %w", objectID, err)
	}
	return nil
}

// BatchPatch applies patches to several objects. Each patch is independent;
// the first error is returned after attempting the rest.
func (s *CanvasStore) BatchPatch(ctx context.Context, projectID string, patches map[string]entities.Patch) error {
	var firstErr error
	for objectID, patch := range patches {
		if err := s.Patch(ctx, projectID, objectID, patch); err != nil && firstErr == nil {
			firstErr = err
		}
	}
	return firstErr
}

// Delete removes an object item
func (s *CanvasStore) Delete(ctx context.Context, projectID, objectID string) error {
	_, err := s.client.DeleteItem(ctx, &dynamodb.DeleteItemInput{
		TableName: aws.String(s.tableName),
		Key: map[string]types.AttributeValue{
			"PK": &types.AttributeValueMemberS{Value: projectKey(projectID)},
			"SK": &types.AttributeValueMemberS{Value: objectKey(objectID)},
		},
	})
	if err != nil {
		return fmt.Errorf("failed to delete object %s: %w", objectID, err)
	}

	s.logger.Debug("object deleted",
		zap.String("project_id", projectID),
		zap.String("object_id", objectID))
	return nil
}

// Reorder rewrites the ZIndex of every listed object to its slice position
func (s *CanvasStore) Reorder(ctx context.Context, projectID string, orderedIDs []string) error {
	var firstErr error
	for i, objectID := range orderedIDs {
		expr, err := expression.NewBuilder().
			WithUpdate(expression.Set(expression.Name("ZIndex"), expression.Value(i))).
			WithCondition(expression.AttributeExists(expression.Name("PK"))).
			Build()
		if err != nil {
			return fmt.Errorf("failed to build reorder expression: %w", err)
		}

		_, err = s.client.UpdateItem(ctx, &dynamodb.UpdateItemInput{
			TableName: aws.String(s.tableName),
			Key: map[string]types.AttributeValue{
				"PK": &types.AttributeValueMemberS{Value: projectKey(projectID)},
				"SK": &types.AttributeValueMemberS{Value: objectKey(objectID)},
			},
			UpdateExpression:          expr.Update(),
			ConditionExpression:       expr.Condition(),
			ExpressionAttributeNames:  expr.Names(),
			ExpressionAttributeValues: expr.Values(),
		})
		if err != nil {
			var ccf *types.ConditionalCheckFailedException
			if errors.As(err, &ccf) {
				continue
			}
			if firstErr == nil {
				firstErr = fmt.Errorf("failed to reorder object %s: %w", objectID, err)
			}
		}
	}
	return firstErr
}

// patchUpdate builds the update expression for the set fields of a patch.
// Returns false when nothing is set.
func patchUpdate(p entities.Patch) (expression.UpdateBuilder, bool) {
	update := expression.UpdateBuilder{}
	any := false
	set := func(name string, value interface{}) {
		update = update.Set(expression.Name(name), expression.Value(value))
		any = true
	}
	setF := func(name string, v *float64) {
		if v != nil {
			set(name, *v)
		}
	}
	setS := func(name string, v *string) {
		if v != nil {
			set(name, *v)
		}
	}
	setB := func(name string, v *bool) {
		if v != nil {
			set(name, *v)
		}
	}

	setF("X", p.X)
	setF("Y", p.Y)
	setF("Rotation", p.Rotation)
	setF("ScaleX", p.ScaleX)
	setF("ScaleY", p.ScaleY)
	setF("SkewX", p.SkewX)
	setF("SkewY", p.SkewY)
	setF("Opacity", p.Opacity)
	setF("Width", p.Width)
	setF("Height", p.Height)
	setF("Radius", p.Radius)
	setF("StrokeWidth", p.StrokeWidth)
	setF("ShadowBlur", p.ShadowBlur)
	setF("ShadowOffsetX", p.ShadowOffsetX)
	setF("ShadowOffsetY", p.ShadowOffsetY)
	setF("FontSize", p.FontSize)

	setS("Fill", p.Fill)
	setS("Stroke", p.Stroke)
	setS("ShadowColor", p.ShadowColor)
	setS("Text", p.Text)
	setS("FontFamily", p.FontFamily)
	setS("ImageURL", p.ImageURL)
	setS("AssetKey", p.AssetKey)
	setS("ParentID", p.ParentID)

	setB("Locked", p.Locked)
	setB("Visible", p.Visible)
	setB("IsCollapsed", p.IsCollapsed)

	if p.Points != nil {
		set("Points", *p.Points)
	}

	updatedAt := time.Now()
	if p.UpdatedAt != nil {
		updatedAt = *p.UpdatedAt
	}
	if any {
		set("UpdatedAt", updatedAt.Format(time.RFC3339Nano))
	}
	return update, any
}
