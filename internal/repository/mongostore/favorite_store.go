package mongostore

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/ignatzorin/activity-favorites/internal/db"
	"github.com/ignatzorin/activity-favorites/internal/models"
	"github.com/ignatzorin/activity-favorites/internal/repository/common"
)

var favoriteSort = bson.D{{Key: "order", Value: 1}, {Key: "createdAt", Value: 1}, {Key: "_id", Value: 1}}

// FavoriteStore хранит избранное в коллекции favorites.
// Каждый фильтр содержит userId.
type FavoriteStore struct {
	coll *mongo.Collection
	now  func() time.Time
}

func NewFavoriteStore(database *mongo.Database) *FavoriteStore {
	return &FavoriteStore{coll: database.Collection(db.FavoritesCollection), now: time.Now}
}

func (s *FavoriteStore) ListByUser(ctx context.Context, userID uuid.UUID) ([]models.Favorite, error) {
	return s.find(ctx, bson.M{"userId": userID.String()})
}

func (s *FavoriteStore) ListByIDs(ctx context.Context, userID uuid.UUID, ids []uuid.UUID) ([]models.Favorite, error) {
	if len(ids) == 0 {
		return []models.Favorite{}, nil
	}
	return s.find(ctx, bson.M{"userId": userID.String(), "_id": bson.M{"$in": idStrings(ids)}})
}

func (s *FavoriteStore) NextOrder(ctx context.Context, userID uuid.UUID) (int, error) {
	var doc favoriteDocument
	opts := options.FindOne().SetSort(bson.D{{Key: "order", Value: -1}}).SetProjection(bson.M{"order": 1})
	err := s.coll.FindOne(ctx, bson.M{"userId": userID.String()}, opts).Decode(&doc)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return 0, nil
	}
	if err != nil {
		return 0, fmt.Errorf("favorite store: next order: %w", err)
	}
	return doc.Order + 1, nil
}

func (s *FavoriteStore) Create(ctx context.Context, fav *models.Favorite) error {
	s.prepare(fav)
	if _, err := s.coll.InsertOne(ctx, newFavoriteDocument(fav)); err != nil {
		return insertError("favorite store", err)
	}
	return nil
}

// CreateAtEnd вычисляет позицию и вставляет запись двумя запросами.
// Одновременные добавления одного пользователя могут получить одинаковую позицию,
// порядок между ними определяется createdAt и _id.
func (s *FavoriteStore) CreateAtEnd(ctx context.Context, fav *models.Favorite) error {
	next, err := s.NextOrder(ctx, fav.UserID)
	if err != nil {
		return err
	}
	fav.Order = next
	return s.Create(ctx, fav)
}

func (s *FavoriteStore) GetByIDAndUser(ctx context.Context, userID, favoriteID uuid.UUID) (*models.Favorite, error) {
	var doc favoriteDocument
	err := s.coll.FindOne(ctx, bson.M{"_id": favoriteID.String(), "userId": userID.String()}).Decode(&doc)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, common.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("favorite store: get by id and user: %w", err)
	}
	fav, err := doc.model()
	if err != nil {
		return nil, err
	}
	return &fav, nil
}

func (s *FavoriteStore) UpdateOrder(ctx context.Context, userID, favoriteID uuid.UUID, order int) (*models.Favorite, error) {
	var doc favoriteDocument
	err := s.coll.FindOneAndUpdate(ctx,
		bson.M{"_id": favoriteID.String(), "userId": userID.String()},
		bson.M{"$set": bson.M{"order": order, "updatedAt": s.now().UTC()}},
		options.FindOneAndUpdate().SetReturnDocument(options.After),
	).Decode(&doc)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, common.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("favorite store: update order: %w", err)
	}
	fav, err := doc.model()
	if err != nil {
		return nil, err
	}
	return &fav, nil
}

// Reorder отправляет все пары одним упорядоченным bulk write.
// Транзакции нет: при ошибке посередине часть позиций уже применена.
func (s *FavoriteStore) Reorder(ctx context.Context, userID uuid.UUID, items []models.FavoriteOrderItem) error {
	if len(items) == 0 {
		return nil
	}

	now := s.now().UTC()
	writes := make([]mongo.WriteModel, 0, len(items))
	for _, item := range items {
		writes = append(writes, mongo.NewUpdateOneModel().
			SetFilter(bson.M{"_id": item.FavoriteID.String(), "userId": userID.String()}).
			SetUpdate(bson.M{"$set": bson.M{"order": item.Order, "updatedAt": now}}))
	}

	res, err := s.coll.BulkWrite(ctx, writes, options.BulkWrite().SetOrdered(true))
	if err != nil {
		return fmt.Errorf("favorite store: reorder: %w", err)
	}
	if res.MatchedCount != int64(len(items)) {
		return fmt.Errorf("favorite store: %w: ожидалось %d, совпало %d", common.ErrPartialUpdate, len(items), res.MatchedCount)
	}
	return nil
}

func (s *FavoriteStore) Exists(ctx context.Context, userID, activityID uuid.UUID) (bool, error) {
	n, err := s.coll.CountDocuments(ctx,
		bson.M{"userId": userID.String(), "activityId": activityID.String()},
		options.Count().SetLimit(1))
	if err != nil {
		return false, fmt.Errorf("favorite store: exists: %w", err)
	}
	return n > 0, nil
}

func (s *FavoriteStore) DeleteByUserAndActivity(ctx context.Context, userID, activityID uuid.UUID) (bool, error) {
	res, err := s.coll.DeleteOne(ctx, bson.M{"userId": userID.String(), "activityId": activityID.String()})
	if err != nil {
		return false, fmt.Errorf("favorite store: delete: %w", err)
	}
	return res.DeletedCount > 0, nil
}

func (s *FavoriteStore) find(ctx context.Context, filter bson.M) ([]models.Favorite, error) {
	cursor, err := s.coll.Find(ctx, filter, options.Find().SetSort(favoriteSort))
	if err != nil {
		return nil, fmt.Errorf("favorite store: find: %w", err)
	}
	var docs []favoriteDocument
	if err := cursor.All(ctx, &docs); err != nil {
		return nil, fmt.Errorf("favorite store: decode: %w", err)
	}

	favorites := make([]models.Favorite, 0, len(docs))
	for _, doc := range docs {
		fav, err := doc.model()
		if err != nil {
			return nil, err
		}
		favorites = append(favorites, fav)
	}
	return favorites, nil
}

func (s *FavoriteStore) prepare(fav *models.Favorite) {
	if fav.ID == uuid.Nil {
		fav.ID = uuid.New()
	}
	now := s.now().UTC().Truncate(time.Millisecond)
	fav.CreatedAt = now
	fav.UpdatedAt = now
}

func insertError(prefix string, err error) error {
	if mongo.IsDuplicateKeyError(err) {
		return fmt.Errorf("%s: %w", prefix, common.ErrAlreadyExists)
	}
	return fmt.Errorf("%s: create: %w", prefix, err)
}
