package mongostore

import (
	"context"
	"errors"
	"fmt"
	"regexp"
	"sort"
	"time"

	"github.com/google/uuid"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/ignatzorin/activity-favorites/internal/db"
	"github.com/ignatzorin/activity-favorites/internal/models"
	"github.com/ignatzorin/activity-favorites/internal/repository/common"
)

var activitySort = bson.D{{Key: "createdAt", Value: -1}, {Key: "_id", Value: 1}}

// ActivityStore хранит активности в коллекции activities.
type ActivityStore struct {
	coll *mongo.Collection
	now  func() time.Time
}

func NewActivityStore(database *mongo.Database) *ActivityStore {
	return &ActivityStore{coll: database.Collection(db.ActivitiesCollection), now: time.Now}
}

func (s *ActivityStore) Create(ctx context.Context, activity *models.Activity) error {
	if activity.ID == uuid.Nil {
		activity.ID = uuid.New()
	}
	now := s.now().UTC().Truncate(time.Millisecond)
	activity.CreatedAt = now
	activity.UpdatedAt = now

	if _, err := s.coll.InsertOne(ctx, newActivityDocument(activity)); err != nil {
		return insertError("activity store", err)
	}
	return nil
}

func (s *ActivityStore) GetByID(ctx context.Context, id uuid.UUID) (*models.Activity, error) {
	var doc activityDocument
	err := s.coll.FindOne(ctx, bson.M{"_id": id.String()}).Decode(&doc)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, common.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("activity store: get by id: %w", err)
	}
	activity, err := doc.model()
	if err != nil {
		return nil, err
	}
	return &activity, nil
}

func (s *ActivityStore) GetByIDs(ctx context.Context, ids []uuid.UUID) ([]models.Activity, error) {
	if len(ids) == 0 {
		return []models.Activity{}, nil
	}
	return s.find(ctx, bson.M{"_id": bson.M{"$in": idStrings(ids)}}, options.Find())
}

func (s *ActivityStore) List(ctx context.Context, filter models.ActivityFilter, limit, offset int) ([]models.Activity, error) {
	opts := options.Find().
		SetSort(activitySort).
		SetSkip(int64(offset)).
		SetLimit(int64(limit))
	return s.find(ctx, activityFilter(filter), opts)
}

func (s *ActivityStore) Count(ctx context.Context, filter models.ActivityFilter) (int, error) {
	n, err := s.coll.CountDocuments(ctx, activityFilter(filter))
	if err != nil {
		return 0, fmt.Errorf("activity store: count: %w", err)
	}
	return int(n), nil
}

func (s *ActivityStore) Latest(ctx context.Context, n int) ([]models.Activity, error) {
	return s.find(ctx, bson.M{}, options.Find().SetSort(activitySort).SetLimit(int64(n)))
}

func (s *ActivityStore) Cities(ctx context.Context) ([]string, error) {
	values, err := s.coll.Distinct(ctx, "city", bson.M{})
	if err != nil {
		return nil, fmt.Errorf("activity store: cities: %w", err)
	}
	cities := make([]string, 0, len(values))
	for _, v := range values {
		if city, ok := v.(string); ok {
			cities = append(cities, city)
		}
	}
	sort.Strings(cities)
	return cities, nil
}

func (s *ActivityStore) find(ctx context.Context, filter bson.M, opts *options.FindOptions) ([]models.Activity, error) {
	cursor, err := s.coll.Find(ctx, filter, opts)
	if err != nil {
		return nil, fmt.Errorf("activity store: find: %w", err)
	}
	var docs []activityDocument
	if err := cursor.All(ctx, &docs); err != nil {
		return nil, fmt.Errorf("activity store: decode: %w", err)
	}

	activities := make([]models.Activity, 0, len(docs))
	for _, doc := range docs {
		activity, err := doc.model()
		if err != nil {
			return nil, err
		}
		activities = append(activities, activity)
	}
	return activities, nil
}

func activityFilter(filter models.ActivityFilter) bson.M {
	query := bson.M{}
	if filter.OwnerID != nil {
		query["ownerId"] = filter.OwnerID.String()
	}
	if filter.City != "" {
		query["city"] = filter.City
	}
	if filter.NameContains != "" {
		query["name"] = primitive.Regex{Pattern: regexp.QuoteMeta(filter.NameContains), Options: "i"}
	}
	if filter.Price != nil {
		query["price"] = *filter.Price
	}
	return query
}
