package router

import (
	"github.com/milorg/backend/internal/interfaces/http/handler"
)

// Handlers bundles the handlers the route table needs.
type Handlers struct {
	Division  *handler.DivisionHandler
	Transfer  *handler.TransferHandler
	Order     *handler.OrderHandler
	Reference *handler.ReferenceHandler
	Audit     *handler.AuditHandler
	System    *handler.SystemHandler
}

// BuildRoutes assembles the API route table under /api/<version>.
func BuildRoutes(r *Router, h Handlers) *Router {
	system := NewDomainGroup("system", "")
	system.GET("/health", h.System.Health)
	system.GET("/system/info", h.System.Info)

	divisions := NewDomainGroup("divisions", "/divisions")
	divisions.POST("", h.Division.Create)
	divisions.GET("", h.Division.List)
	divisions.GET("/:id", h.Division.Get)
	divisions.GET("/:id/children", h.Division.Children)
	divisions.GET("/:id/subtree", h.Division.Subtree)
	divisions.POST("/:id/move", h.Division.Move)
	divisions.POST("/:id/deactivate", h.Division.Deactivate)
	divisions.POST("/:id/restore", h.Division.Restore)
	divisions.GET("/:id/holdings", h.Transfer.ListDivisionHoldings)

	transfers := NewDomainGroup("transfers", "/transfers")
	transfers.POST("", h.Transfer.Create)
	transfers.GET("", h.Transfer.List)
	transfers.GET("/:id", h.Transfer.Get)
	transfers.POST("/:id/items", h.Transfer.AddItem)
	transfers.POST("/:id/activate", h.Transfer.Activate)
	transfers.POST("/:id/complete", h.Transfer.Complete)
	transfers.POST("/:id/cancel", h.Transfer.Cancel)

	holdings := NewDomainGroup("holdings", "/holdings")
	holdings.GET("/:item_type/:identifier", h.Transfer.GetHolding)

	orders := NewDomainGroup("orders", "/orders")
	orders.POST("", h.Order.Create)
	orders.GET("", h.Order.List)
	orders.GET("/by-number/:number", h.Order.GetByNumber)
	orders.GET("/:id", h.Order.Get)
	orders.POST("/:id/terms", h.Order.AddTerm)
	orders.POST("/:id/issue", h.Order.Issue)
	orders.POST("/:id/start", h.Order.Start)
	orders.POST("/:id/cancel", h.Order.Cancel)
	orders.POST("/:id/assignments", h.Order.CreateAssignment)
	orders.GET("/:id/assignments", h.Order.ListAssignments)

	terms := NewDomainGroup("terms", "/terms")
	terms.POST("/:id/complete", h.Order.CompleteTerm)

	assignments := NewDomainGroup("assignments", "/assignments")
	assignments.POST("/:id/advance", h.Order.AdvanceAssignment)

	reference := NewDomainGroup("reference", "/reference")
	reference.POST("/:kind", h.Reference.Create)
	reference.GET("/:kind", h.Reference.ListByKind)
	reference.GET("/:kind/:code", h.Reference.Get)
	reference.POST("/:kind/:code/deactivate", h.Reference.Deactivate)

	audit := NewDomainGroup("audit", "/audit")
	audit.GET("/:entity_type/:entity_id", h.Audit.History)

	r.Register(system).
		Register(divisions).
		Register(transfers).
		Register(holdings).
		Register(orders).
		Register(terms).
		Register(assignments).
		Register(reference).
		Register(audit)

	return r
}
