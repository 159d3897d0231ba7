// Package migrations owns the schema for every bounded context.
package migrations

import (
	"gorm.io/gorm"

	cartpostgres "github.com/Apurer/foxnuts-farm-api/internal/domains/cart/adapters/persistence/postgres"
	catalogpostgres "github.com/Apurer/foxnuts-farm-api/internal/domains/catalog/adapters/persistence/postgres"
	newsletterpostgres "github.com/Apurer/foxnuts-farm-api/internal/domains/newsletter/adapters/persistence/postgres"
	orderpostgres "github.com/Apurer/foxnuts-farm-api/internal/domains/orders/adapters/persistence/postgres"
	reviewpostgres "github.com/Apurer/foxnuts-farm-api/internal/domains/reviews/adapters/persistence/postgres"
	subscriptionpostgres "github.com/Apurer/foxnuts-farm-api/internal/domains/subscriptions/adapters/persistence/postgres"
	userpostgres "github.com/Apurer/foxnuts-farm-api/internal/domains/users/adapters/persistence/postgres"
)

// Models lists the persistence records of all contexts in dependency order.
func Models() []any {
	var models []any
	for _, group := range [][]any{
		catalogpostgres.Models(),
		userpostgres.Models(),
		cartpostgres.Models(),
		orderpostgres.Models(),
		reviewpostgres.Models(),
		newsletterpostgres.Models(),
		subscriptionpostgres.Models(),
	} {
		models = append(models, group...)
	}
	return models
}

// Run applies the schema. A nil handle is a no-op so in-memory deployments can call it unconditionally.
func Run(db *gorm.DB) error {
	if db == nil {
		return nil
	}
	return db.AutoMigrate(Models()...)
}
