package graph

import (
	"context"

	"github.com/graphql-go/graphql"

	"github.com/ignatzorin/activity-favorites/internal/models"
)

// resolveWith превращает метод резолвера в graphql.FieldResolveFn
// и приводит ошибки к публичному виду.
func resolveWith(op string, fn func(ctx context.Context, args map[string]interface{}) (interface{}, error)) graphql.FieldResolveFn {
	return func(p graphql.ResolveParams) (interface{}, error) {
		res, err := fn(p.Context, p.Args)
		if err != nil {
			return nil, toPublic(op, err)
		}
		return res, nil
	}
}

func noArgs(fn func(ctx context.Context) (interface{}, error)) func(context.Context, map[string]interface{}) (interface{}, error) {
	return func(ctx context.Context, _ map[string]interface{}) (interface{}, error) {
		return fn(ctx)
	}
}

func pageArgsConfig() graphql.FieldConfigArgument {
	return graphql.FieldConfigArgument{
		"page":  &graphql.ArgumentConfig{Type: graphql.Int, DefaultValue: 1},
		"limit": &graphql.ArgumentConfig{Type: graphql.Int, DefaultValue: 10},
	}
}

func nonNull(t graphql.Output) graphql.Output { return graphql.NewNonNull(t) }

func listOf(t graphql.Output) graphql.Output {
	return graphql.NewNonNull(graphql.NewList(graphql.NewNonNull(t)))
}

// NewSchema собирает GraphQL схему поверх резолвера.
func NewSchema(r *Resolver) (graphql.Schema, error) {
	userType := graphql.NewObject(graphql.ObjectConfig{
		Name: "User",
		Fields: graphql.Fields{
			"id":        &graphql.Field{Type: graphql.NewNonNull(graphql.ID)},
			"email":     &graphql.Field{Type: nonNull(graphql.String)},
			"firstName": &graphql.Field{Type: nonNull(graphql.String)},
			"lastName":  &graphql.Field{Type: nonNull(graphql.String)},
			"role":      &graphql.Field{Type: nonNull(graphql.String)},
			"createdAt": &graphql.Field{Type: graphql.DateTime},
		},
	})

	activityType := graphql.NewObject(graphql.ObjectConfig{
		Name: "Activity",
		Fields: graphql.Fields{
			"id":          &graphql.Field{Type: graphql.NewNonNull(graphql.ID)},
			"name":        &graphql.Field{Type: nonNull(graphql.String)},
			"city":        &graphql.Field{Type: nonNull(graphql.String)},
			"description": &graphql.Field{Type: nonNull(graphql.String)},
			"price":       &graphql.Field{Type: nonNull(graphql.Int)},
			"createdAt":   &graphql.Field{Type: graphql.DateTime},
			"owner": &graphql.Field{
				Type: nonNull(userType),
				Resolve: func(p graphql.ResolveParams) (interface{}, error) {
					a, _ := p.Source.(*models.Activity)
					if a == nil {
						if v, ok := p.Source.(models.Activity); ok {
							a = &v
						}
					}
					if a == nil {
						return nil, nil
					}
					res, err := r.activityOwner(p.Context, a)
					return res, toPublic("activity.owner", err)
				},
			},
		},
	})

	pageType := graphql.NewObject(graphql.ObjectConfig{
		Name: "PaginatedActivities",
		Fields: graphql.Fields{
			"items":      &graphql.Field{Type: listOf(activityType)},
			"total":      &graphql.Field{Type: nonNull(graphql.Int)},
			"page":       &graphql.Field{Type: nonNull(graphql.Int)},
			"limit":      &graphql.Field{Type: nonNull(graphql.Int)},
			"totalPages": &graphql.Field{Type: nonNull(graphql.Int)},
		},
	})

	favoriteField := func(t graphql.Output, get func(n *favoriteNode) interface{}) *graphql.Field {
		return &graphql.Field{
			Type: t,
			Resolve: func(p graphql.ResolveParams) (interface{}, error) {
				return get(p.Source.(*favoriteNode)), nil
			},
		}
	}
	favoriteType := graphql.NewObject(graphql.ObjectConfig{
		Name: "Favorite",
		Fields: graphql.Fields{
			"id":         favoriteField(graphql.NewNonNull(graphql.ID), func(n *favoriteNode) interface{} { return n.fav.ID.String() }),
			"activityId": favoriteField(graphql.NewNonNull(graphql.ID), func(n *favoriteNode) interface{} { return n.fav.ActivityID.String() }),
			"order":      favoriteField(nonNull(graphql.Int), func(n *favoriteNode) interface{} { return n.fav.Order }),
			"createdAt":  favoriteField(graphql.DateTime, func(n *favoriteNode) interface{} { return n.fav.CreatedAt }),
			"updatedAt":  favoriteField(graphql.DateTime, func(n *favoriteNode) interface{} { return n.fav.UpdatedAt }),
			"activity": &graphql.Field{
				Type: activityType,
				Resolve: func(p graphql.ResolveParams) (interface{}, error) {
					res, err := r.favoriteActivity(p.Context, p.Source.(*favoriteNode))
					return res, toPublic("favorite.activity", err)
				},
			},
		},
	})

	tokenType := graphql.NewObject(graphql.ObjectConfig{
		Name: "SignInDto",
		Fields: graphql.Fields{
			"access_token": &graphql.Field{Type: nonNull(graphql.String)},
		},
	})

	createFavoriteInput := graphql.NewInputObject(graphql.InputObjectConfig{
		Name: "CreateFavoriteInput",
		Fields: graphql.InputObjectConfigFieldMap{
			"activityId": &graphql.InputObjectFieldConfig{Type: graphql.NewNonNull(graphql.ID)},
			"order":      &graphql.InputObjectFieldConfig{Type: graphql.Int},
		},
	})
	updateFavoriteOrderInput := graphql.NewInputObject(graphql.InputObjectConfig{
		Name: "UpdateFavoriteOrderInput",
		Fields: graphql.InputObjectConfigFieldMap{
			"favoriteId": &graphql.InputObjectFieldConfig{Type: graphql.NewNonNull(graphql.ID)},
			"newOrder":   &graphql.InputObjectFieldConfig{Type: graphql.NewNonNull(graphql.Int)},
		},
	})
	favoriteOrderInput := graphql.NewInputObject(graphql.InputObjectConfig{
		Name: "FavoriteOrderInput",
		Fields: graphql.InputObjectConfigFieldMap{
			"favoriteId": &graphql.InputObjectFieldConfig{Type: graphql.NewNonNull(graphql.ID)},
			"order":      &graphql.InputObjectFieldConfig{Type: graphql.NewNonNull(graphql.Int)},
		},
	})
	reorderFavoritesInput := graphql.NewInputObject(graphql.InputObjectConfig{
		Name: "ReorderFavoritesInput",
		Fields: graphql.InputObjectConfigFieldMap{
			"favorites": &graphql.InputObjectFieldConfig{
				Type: graphql.NewNonNull(graphql.NewList(graphql.NewNonNull(favoriteOrderInput))),
			},
		},
	})
	createActivityInput := graphql.NewInputObject(graphql.InputObjectConfig{
		Name: "CreateActivityInput",
		Fields: graphql.InputObjectConfigFieldMap{
			"name":        &graphql.InputObjectFieldConfig{Type: graphql.NewNonNull(graphql.String)},
			"city":        &graphql.InputObjectFieldConfig{Type: graphql.NewNonNull(graphql.String)},
			"description": &graphql.InputObjectFieldConfig{Type: graphql.NewNonNull(graphql.String)},
			"price":       &graphql.InputObjectFieldConfig{Type: graphql.NewNonNull(graphql.Int)},
		},
	})
	signUpInput := graphql.NewInputObject(graphql.InputObjectConfig{
		Name: "SignUpInput",
		Fields: graphql.InputObjectConfigFieldMap{
			"email":     &graphql.InputObjectFieldConfig{Type: graphql.NewNonNull(graphql.String)},
			"password":  &graphql.InputObjectFieldConfig{Type: graphql.NewNonNull(graphql.String)},
			"firstName": &graphql.InputObjectFieldConfig{Type: graphql.NewNonNull(graphql.String)},
			"lastName":  &graphql.InputObjectFieldConfig{Type: graphql.NewNonNull(graphql.String)},
		},
	})
	signInInput := graphql.NewInputObject(graphql.InputObjectConfig{
		Name: "SignInInput",
		Fields: graphql.InputObjectConfigFieldMap{
			"email":    &graphql.InputObjectFieldConfig{Type: graphql.NewNonNull(graphql.String)},
			"password": &graphql.InputObjectFieldConfig{Type: graphql.NewNonNull(graphql.String)},
		},
	})

	activityIDArg := graphql.FieldConfigArgument{
		"activityId": &graphql.ArgumentConfig{Type: graphql.NewNonNull(graphql.ID)},
	}

	byCityArgs := pageArgsConfig()
	byCityArgs["city"] = &graphql.ArgumentConfig{Type: graphql.NewNonNull(graphql.String)}
	byCityArgs["activity"] = &graphql.ArgumentConfig{Type: graphql.String}
	byCityArgs["price"] = &graphql.ArgumentConfig{Type: graphql.Int}

	query := graphql.NewObject(graphql.ObjectConfig{
		Name: "Query",
		Fields: graphql.Fields{
			"getAllFavoritesByUserId": &graphql.Field{
				Type:    listOf(favoriteType),
				Resolve: resolveWith("getAllFavoritesByUserId", noArgs(r.favorites)),
			},
			"isFavorite": &graphql.Field{
				Type:    nonNull(graphql.Boolean),
				Args:    activityIDArg,
				Resolve: resolveWith("isFavorite", r.isFavorite),
			},
			"getActivities": &graphql.Field{
				Type:    nonNull(pageType),
				Args:    pageArgsConfig(),
				Resolve: resolveWith("getActivities", r.activities),
			},
			"getActivitiesByUser": &graphql.Field{
				Type:    nonNull(pageType),
				Args:    pageArgsConfig(),
				Resolve: resolveWith("getActivitiesByUser", r.activitiesByUser),
			},
			"getActivitiesByCity": &graphql.Field{
				Type:    nonNull(pageType),
				Args:    byCityArgs,
				Resolve: resolveWith("getActivitiesByCity", r.activitiesByCity),
			},
			"getLatestActivities": &graphql.Field{
				Type:    listOf(activityType),
				Resolve: resolveWith("getLatestActivities", noArgs(r.latestActivities)),
			},
			"getCities": &graphql.Field{
				Type:    listOf(graphql.String),
				Resolve: resolveWith("getCities", noArgs(r.cities)),
			},
			"getActivity": &graphql.Field{
				Type: nonNull(activityType),
				Args: graphql.FieldConfigArgument{
					"id": &graphql.ArgumentConfig{Type: graphql.NewNonNull(graphql.ID)},
				},
				Resolve: resolveWith("getActivity", r.activity),
			},
			"getMe": &graphql.Field{
				Type:    nonNull(userType),
				Resolve: resolveWith("getMe", noArgs(r.me)),
			},
		},
	})

	mutation := graphql.NewObject(graphql.ObjectConfig{
		Name: "Mutation",
		Fields: graphql.Fields{
			"createFavorite": &graphql.Field{
				Type: nonNull(favoriteType),
				Args: graphql.FieldConfigArgument{
					"createFavoriteInput": &graphql.ArgumentConfig{Type: graphql.NewNonNull(createFavoriteInput)},
				},
				Resolve: resolveWith("createFavorite", r.createFavorite),
			},
			"updateFavoriteOrder": &graphql.Field{
				Type: nonNull(favoriteType),
				Args: graphql.FieldConfigArgument{
					"updateFavoriteOrderInput": &graphql.ArgumentConfig{Type: graphql.NewNonNull(updateFavoriteOrderInput)},
				},
				Resolve: resolveWith("updateFavoriteOrder", r.updateFavoriteOrder),
			},
			"reorderFavorites": &graphql.Field{
				Type: listOf(favoriteType),
				Args: graphql.FieldConfigArgument{
					"reorderFavoritesInput": &graphql.ArgumentConfig{Type: graphql.NewNonNull(reorderFavoritesInput)},
				},
				Resolve: resolveWith("reorderFavorites", r.reorderFavorites),
			},
			"deleteFavorite": &graphql.Field{
				Type:    nonNull(graphql.Boolean),
				Args:    activityIDArg,
				Resolve: resolveWith("deleteFavorite", r.deleteFavorite),
			},
			"createActivity": &graphql.Field{
				Type: nonNull(activityType),
				Args: graphql.FieldConfigArgument{
					"createActivityInput": &graphql.ArgumentConfig{Type: graphql.NewNonNull(createActivityInput)},
				},
				Resolve: resolveWith("createActivity", r.createActivity),
			},
			"register": &graphql.Field{
				Type: nonNull(userType),
				Args: graphql.FieldConfigArgument{
					"signUpInput": &graphql.ArgumentConfig{Type: graphql.NewNonNull(signUpInput)},
				},
				Resolve: resolveWith("register", r.register),
			},
			"login": &graphql.Field{
				Type: nonNull(tokenType),
				Args: graphql.FieldConfigArgument{
					"signInInput": &graphql.ArgumentConfig{Type: graphql.NewNonNull(signInInput)},
				},
				Resolve: resolveWith("login", r.login),
			},
			"logout": &graphql.Field{
				Type:    nonNull(graphql.Boolean),
				Resolve: resolveWith("logout", noArgs(r.logout)),
			},
		},
	})

	return graphql.NewSchema(graphql.SchemaConfig{
		Query:    query,
		Mutation: mutation,
	})
}
