// Package models contains GORM-specific persistence models that map to database tables.
// These models are separate from domain entities to keep the domain layer pure and free
// from ORM concerns.
//
// Key Principles:
// 1. Domain entities should be free of GORM tags and infrastructure concerns
// 2. Persistence models contain all GORM annotations and table mappings
// 3. Mappers convert between domain entities and persistence models
// 4. Repositories use persistence models for database operations
//
// Structure:
// - base.go: Base persistence models (BaseModel, AggregateModel)
// - division.go: Hierarchy context model (Division)
// - transfer.go: Transfer context models (Transfer, TransferItem, ItemHolding)
// - order.go: Order context models (Order, OrderRecipient, OrderTerm, Assignment)
// - reference.go: Reference data model (ReferenceEntry)
// - audit.go: Append-only audit record model
package models
