package graph

import (
	"context"

	"github.com/google/uuid"

	"github.com/ignatzorin/activity-favorites/internal/models"
	"github.com/ignatzorin/activity-favorites/internal/service"
)

// FavoriteAPI описывает операции избранного, доступные через GraphQL.
type FavoriteAPI interface {
	GetAllFavoritesByUserID(ctx context.Context, userID uuid.UUID) ([]models.Favorite, error)
	CreateFavorite(ctx context.Context, userID uuid.UUID, in service.CreateFavoriteInput) (*models.Favorite, error)
	UpdateFavoriteOrder(ctx context.Context, userID uuid.UUID, in service.UpdateFavoriteOrderInput) (*models.Favorite, error)
	ReorderFavorites(ctx context.Context, userID uuid.UUID, in service.ReorderFavoritesInput) ([]models.Favorite, error)
	DeleteFavorite(ctx context.Context, userID, activityID uuid.UUID) (bool, error)
	IsFavorite(ctx context.Context, userID, activityID uuid.UUID) (bool, error)
}

// ActivityAPI описывает каталог активностей.
type ActivityAPI interface {
	List(ctx context.Context, page, limit int) (*models.ActivityPage, error)
	ListByUser(ctx context.Context, userID uuid.UUID, page, limit int) (*models.ActivityPage, error)
	ListByCity(ctx context.Context, city, name string, price *int, page, limit int) (*models.ActivityPage, error)
	Latest(ctx context.Context) ([]models.Activity, error)
	Cities(ctx context.Context) ([]string, error)
	GetByID(ctx context.Context, id uuid.UUID) (*models.Activity, error)
	GetByIDs(ctx context.Context, ids []uuid.UUID) (map[uuid.UUID]models.Activity, error)
	Create(ctx context.Context, ownerID uuid.UUID, in service.CreateActivityInput) (*models.Activity, error)
}

// AuthAPI отвечает за регистрацию, вход и профиль.
type AuthAPI interface {
	Register(ctx context.Context, in service.RegisterInput) (*models.User, error)
	Login(ctx context.Context, in service.LoginInput) (*service.AuthResult, error)
	GetMe(ctx context.Context, userID uuid.UUID) (*models.User, error)
}

// Throttler ограничивает частоту чувствительных операций (login, register).
type Throttler interface {
	Throttle(ctx context.Context, op string) error
}

// Resolver связывает схему с сервисами.
type Resolver struct {
	Favorites  FavoriteAPI
	Activities ActivityAPI
	Auth       AuthAPI
	Throttler  Throttler
}

// favoriteNode хранит избранное вместе с заранее загруженной активностью.
type favoriteNode struct {
	fav      models.Favorite
	activity *models.Activity
	loaded   bool
}

// withActivities загружает активности списка одним запросом.
func (r *Resolver) withActivities(ctx context.Context, favs []models.Favorite) ([]*favoriteNode, error) {
	nodes := make([]*favoriteNode, len(favs))
	if len(favs) == 0 {
		return nodes, nil
	}

	ids := make([]uuid.UUID, len(favs))
	for i, f := range favs {
		ids[i] = f.ActivityID
	}
	byID, err := r.Activities.GetByIDs(ctx, ids)
	if err != nil {
		return nil, err
	}

	for i, f := range favs {
		node := &favoriteNode{fav: f, loaded: true}
		if a, ok := byID[f.ActivityID]; ok {
			node.activity = &a
		}
		nodes[i] = node
	}
	return nodes, nil
}

func (r *Resolver) throttle(ctx context.Context, op string) error {
	if r.Throttler == nil {
		return nil
	}
	return r.Throttler.Throttle(ctx, op)
}

func (r *Resolver) favorites(ctx context.Context) (interface{}, error) {
	userID := ViewerFrom(ctx)
	if err := requireViewer(userID); err != nil {
		return nil, err
	}
	favs, err := r.Favorites.GetAllFavoritesByUserID(ctx, userID)
	if err != nil {
		return nil, err
	}
	return r.withActivities(ctx, favs)
}

func (r *Resolver) isFavorite(ctx context.Context, args map[string]interface{}) (interface{}, error) {
	userID := ViewerFrom(ctx)
	if err := requireViewer(userID); err != nil {
		return nil, err
	}
	activityID, err := parseID(args["activityId"], "activityId")
	if err != nil {
		return nil, err
	}
	return r.Favorites.IsFavorite(ctx, userID, activityID)
}

func (r *Resolver) createFavorite(ctx context.Context, args map[string]interface{}) (interface{}, error) {
	userID := ViewerFrom(ctx)
	if err := requireViewer(userID); err != nil {
		return nil, err
	}
	input, _ := args["createFavoriteInput"].(map[string]interface{})
	activityID, err := parseID(input["activityId"], "activityId")
	if err != nil {
		return nil, err
	}

	in := service.CreateFavoriteInput{ActivityID: activityID}
	if order, ok := input["order"].(int); ok {
		in.Order = &order
	}

	fav, err := r.Favorites.CreateFavorite(ctx, userID, in)
	if err != nil {
		return nil, err
	}
	return &favoriteNode{fav: *fav}, nil
}

func (r *Resolver) updateFavoriteOrder(ctx context.Context, args map[string]interface{}) (interface{}, error) {
	userID := ViewerFrom(ctx)
	if err := requireViewer(userID); err != nil {
		return nil, err
	}
	input, _ := args["updateFavoriteOrderInput"].(map[string]interface{})
	favoriteID, err := parseID(input["favoriteId"], "favoriteId")
	if err != nil {
		return nil, err
	}
	newOrder, _ := input["newOrder"].(int)

	fav, err := r.Favorites.UpdateFavoriteOrder(ctx, userID, service.UpdateFavoriteOrderInput{
		FavoriteID: favoriteID,
		NewOrder:   newOrder,
	})
	if err != nil {
		return nil, err
	}
	return &favoriteNode{fav: *fav}, nil
}

func (r *Resolver) reorderFavorites(ctx context.Context, args map[string]interface{}) (interface{}, error) {
	userID := ViewerFrom(ctx)
	if err := requireViewer(userID); err != nil {
		return nil, err
	}
	input, _ := args["reorderFavoritesInput"].(map[string]interface{})
	rawItems, _ := input["favorites"].([]interface{})

	items := make([]models.FavoriteOrderItem, 0, len(rawItems))
	for _, raw := range rawItems {
		item, _ := raw.(map[string]interface{})
		favoriteID, err := parseID(item["favoriteId"], "favoriteId")
		if err != nil {
			return nil, err
		}
		order, _ := item["order"].(int)
		items = append(items, models.FavoriteOrderItem{FavoriteID: favoriteID, Order: order})
	}

	favs, err := r.Favorites.ReorderFavorites(ctx, userID, service.ReorderFavoritesInput{Favorites: items})
	if err != nil {
		return nil, err
	}
	return r.withActivities(ctx, favs)
}

func (r *Resolver) deleteFavorite(ctx context.Context, args map[string]interface{}) (interface{}, error) {
	userID := ViewerFrom(ctx)
	if err := requireViewer(userID); err != nil {
		return nil, err
	}
	activityID, err := parseID(args["activityId"], "activityId")
	if err != nil {
		return nil, err
	}
	return r.Favorites.DeleteFavorite(ctx, userID, activityID)
}

// favoriteActivity возвращает активность избранного; удалённая активность даёт null.
func (r *Resolver) favoriteActivity(ctx context.Context, node *favoriteNode) (interface{}, error) {
	if node.loaded {
		if node.activity == nil {
			return nil, nil
		}
		return node.activity, nil
	}
	byID, err := r.Activities.GetByIDs(ctx, []uuid.UUID{node.fav.ActivityID})
	if err != nil {
		return nil, err
	}
	if a, ok := byID[node.fav.ActivityID]; ok {
		return &a, nil
	}
	return nil, nil
}

func pageArgs(args map[string]interface{}) (int, int) {
	page, _ := args["page"].(int)
	limit, _ := args["limit"].(int)
	return page, limit
}

func (r *Resolver) activities(ctx context.Context, args map[string]interface{}) (interface{}, error) {
	page, limit := pageArgs(args)
	return r.Activities.List(ctx, page, limit)
}

func (r *Resolver) activitiesByUser(ctx context.Context, args map[string]interface{}) (interface{}, error) {
	userID := ViewerFrom(ctx)
	if err := requireViewer(userID); err != nil {
		return nil, err
	}
	page, limit := pageArgs(args)
	return r.Activities.ListByUser(ctx, userID, page, limit)
}

func (r *Resolver) activitiesByCity(ctx context.Context, args map[string]interface{}) (interface{}, error) {
	page, limit := pageArgs(args)
	city, _ := args["city"].(string)
	name, _ := args["activity"].(string)
	var price *int
	if p, ok := args["price"].(int); ok {
		price = &p
	}
	return r.Activities.ListByCity(ctx, city, name, price, page, limit)
}

func (r *Resolver) latestActivities(ctx context.Context) (interface{}, error) {
	return r.Activities.Latest(ctx)
}

func (r *Resolver) cities(ctx context.Context) (interface{}, error) {
	return r.Activities.Cities(ctx)
}

func (r *Resolver) activity(ctx context.Context, args map[string]interface{}) (interface{}, error) {
	id, err := parseID(args["id"], "id")
	if err != nil {
		return nil, err
	}
	return r.Activities.GetByID(ctx, id)
}

func (r *Resolver) createActivity(ctx context.Context, args map[string]interface{}) (interface{}, error) {
	userID := ViewerFrom(ctx)
	if err := requireViewer(userID); err != nil {
		return nil, err
	}
	input, _ := args["createActivityInput"].(map[string]interface{})
	in := service.CreateActivityInput{}
	in.Name, _ = input["name"].(string)
	in.City, _ = input["city"].(string)
	in.Description, _ = input["description"].(string)
	in.Price, _ = input["price"].(int)
	return r.Activities.Create(ctx, userID, in)
}

func (r *Resolver) activityOwner(ctx context.Context, a *models.Activity) (interface{}, error) {
	return r.Auth.GetMe(ctx, a.OwnerID)
}

func (r *Resolver) me(ctx context.Context) (interface{}, error) {
	return r.Auth.GetMe(ctx, ViewerFrom(ctx))
}

func (r *Resolver) register(ctx context.Context, args map[string]interface{}) (interface{}, error) {
	if err := r.throttle(ctx, "register"); err != nil {
		return nil, err
	}
	input, _ := args["signUpInput"].(map[string]interface{})
	in := service.RegisterInput{}
	in.Email, _ = input["email"].(string)
	in.Password, _ = input["password"].(string)
	in.FirstName, _ = input["firstName"].(string)
	in.LastName, _ = input["lastName"].(string)
	return r.Auth.Register(ctx, in)
}

func (r *Resolver) login(ctx context.Context, args map[string]interface{}) (interface{}, error) {
	if err := r.throttle(ctx, "login"); err != nil {
		return nil, err
	}
	input, _ := args["signInInput"].(map[string]interface{})
	in := service.LoginInput{}
	in.Email, _ = input["email"].(string)
	in.Password, _ = input["password"].(string)

	res, err := r.Auth.Login(ctx, in)
	if err != nil {
		return nil, err
	}
	if s := sessionFrom(ctx); s != nil {
		s.SetAuthToken(res.Token)
	}
	return res.Token, nil
}

func (r *Resolver) logout(ctx context.Context) (interface{}, error) {
	if s := sessionFrom(ctx); s != nil {
		s.ClearAuthToken()
	}
	return true, nil
}
