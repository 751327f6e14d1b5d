package model

// Module is a feature area of the application that can be granted to a user.
type Module struct {
	ID        string `json:"id"`
	Name      string `json:"name"`
	Available bool   `json:"available"`
}

// ModulePermission holds the capability flags a user has on one module.
// CanView is the entry condition for the module and is true for every stored record.
type ModulePermission struct {
	ModuleID   string `json:"module_id"`
	CanView    bool   `json:"can_view"`
	CanCreate  bool   `json:"can_create"`
	CanEdit    bool   `json:"can_edit"`
	CanDelete  bool   `json:"can_delete"`
	CanApprove bool   `json:"can_approve"`
	CanExport  bool   `json:"can_export"`
}
