package permissions

import "github.com/cleared-dev/backoffice/internal/model"

// DefaultModules returns the module catalog installed by migrate.
func DefaultModules() []model.Module {
	return []model.Module{
		{ID: "financeiro", Name: "Financeiro", Available: true},
		{ID: "agenda", Name: "Agenda", Available: true},
		{ID: "clientes", Name: "Clientes", Available: true},
		{ID: "fornecedores", Name: "Fornecedores", Available: true},
		{ID: "centros-de-custo", Name: "Centros de Custo", Available: true},
		{ID: "relatorios", Name: "Relatórios", Available: true},
		{ID: "usuarios", Name: "Usuários", Available: true},
	}
}

// Catalog provides lookup over the module catalog.
type Catalog struct {
	modules []model.Module
	byID    map[string]model.Module
}

// NewCatalog creates a Catalog from a slice of modules.
func NewCatalog(modules []model.Module) *Catalog {
	byID := make(map[string]model.Module, len(modules))
	for _, m := range modules {
		byID[m.ID] = m
	}
	return &Catalog{modules: modules, byID: byID}
}

// All returns all modules in catalog order.
func (c *Catalog) All() []model.Module {
	return c.modules
}

// Get returns a module by ID.
func (c *Catalog) Get(id string) (model.Module, bool) {
	m, ok := c.byID[id]
	return m, ok
}

// Grantable reports whether a module exists and is available to be granted.
func (c *Catalog) Grantable(id string) bool {
	m, ok := c.byID[id]
	return ok && m.Available
}
