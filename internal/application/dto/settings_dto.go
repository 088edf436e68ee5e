package dto

// WindowDTO una ventana de tiempo tal como la edita el admin (hora local, sin zona).
type WindowDTO struct {
	Name  string `json:"name"`
	Start string `json:"start"`
	End   string `json:"end"`
	Open  bool   `json:"open"`
}

// SettingsResponse todas las claves guardadas y el estado de cada ventana.
type SettingsResponse struct {
	Values  map[string]string `json:"values"`
	Windows []WindowDTO       `json:"windows"`
}

// RegistrationStatusResponse qué registros están abiertos ahora (página de inicio).
type RegistrationStatusResponse struct {
	SellerOpen   bool `json:"seller_open"`
	EmployeeOpen bool `json:"employee_open"`
}
