package dynamodb

import (
	"context"
	"fmt"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"
	"go.uber.org/zap"

	"canvas-backend/application/ports"
)

// AssetStore removes asset records when their owning image object is
// deleted. Asset metadata lives in the same table under an ASSET partition;
// blob cleanup is driven off these records by an external reaper.
type AssetStore struct {
	client    *dynamodb.Client
	tableName string
	logger    *zap.Logger
}

// NewAssetStore creates a new AssetStore
func NewAssetStore(client *dynamodb.Client, tableName string, logger *zap.Logger) *AssetStore {
	return &AssetStore{client: client, tableName: tableName, logger: logger}
}

// Delete removes the asset record for a key
func (s *AssetStore) Delete(ctx context.Context, assetKey string) error {
	_, err := s.client.DeleteItem(ctx, &dynamodb.DeleteItemInput{
		TableName: aws.String(s.tableName),
		Key: map[string]types.AttributeValue{
			"PK": &types.AttributeValueMemberS{Value: "ASSET"},
			"SK": &types.AttributeValueMemberS{Value: fmt.Sprintf("ASSET#%s", assetKey)},
		},
	})
	if err != nil {
		return fmt.Errorf("failed to delete asset %s: %w", assetKey, err)
	}

	s.logger.Debug("asset record deleted", zap.String("asset_key", assetKey))
	return nil
}

var _ ports.AssetStore = (*AssetStore)(nil)
