package policy

import (
	"log/slog"

	"gorm.io/gorm"

	"github.com/diewo77/go-recipes/auth"
	"github.com/diewo77/go-recipes/internal/handlers"
	"github.com/diewo77/go-recipes/internal/models"
	"github.com/diewo77/go-recipes/internal/services"
)

// RouterConfig holds configured handlers and middleware for the application.
type RouterConfig struct {
	// AuthGate provides authorization checks and middleware
	AuthGate *AuthGate
	// Authenticator resolves the Authorization header to a user
	Authenticator *auth.Authenticator

	UserHandler       *handlers.UserHandler
	TagHandler        *handlers.NamedHandler[models.Tag, *models.Tag]
	IngredientHandler *handlers.NamedHandler[models.Ingredient, *models.Ingredient]
	RecipeHandler     *handlers.RecipeHandler
	AdminUserHandler  *handlers.AdminUserHandler
	HealthHandler     *handlers.HealthHandler

	UserService *services.UserService
}

// NewRouterConfig wires the gate, its policies, the services and the
// handlers on top of db.
//
// Example usage with chi:
//
//	cfg := policy.NewRouterConfig(db, log)
//	r.Use(cfg.Authenticator.Middleware)
//	r.With(cfg.AuthGate.RequirePermission("recipe", gate.ActionList)).Get("/recipe/recipes", cfg.RecipeHandler.List)
func NewRouterConfig(db *gorm.DB, log *slog.Logger) *RouterConfig {
	authGate := NewAuthGate(FlagProfileResolver{})

	// Owned resources: the gate double checks records loaded by handlers.
	ownership := NewOwnershipPolicy()
	authGate.RegisterPolicy(ResourceRecipe, ownership)
	authGate.RegisterPolicy(ResourceTag, ownership)
	authGate.RegisterPolicy(ResourceIngredient, ownership)

	userService := services.NewUserService(db)

	return &RouterConfig{
		AuthGate:          authGate,
		Authenticator:     auth.New(userService.ResolveToken, log),
		UserHandler:       handlers.NewUserHandler(userService, log),
		TagHandler:        handlers.NewTagHandler(services.NewTagCollection(db), authGate, log),
		IngredientHandler: handlers.NewIngredientHandler(services.NewIngredientCollection(db), authGate, log),
		RecipeHandler:     handlers.NewRecipeHandler(services.NewRecipeService(db), authGate, log),
		AdminUserHandler:  handlers.NewAdminUserHandler(userService, log),
		HealthHandler:     handlers.NewHealthHandler(db),
		UserService:       userService,
	}
}
