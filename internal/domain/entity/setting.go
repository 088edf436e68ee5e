package entity

import "time"

// Claves de configuración editables por el admin (fechas como texto local sin zona horaria).
const (
	SettingSellerRegistrationStart   = "registration_seller_start"
	SettingSellerRegistrationEnd     = "registration_seller_end"
	SettingEmployeeRegistrationStart = "registration_employee_start"
	SettingEmployeeRegistrationEnd   = "registration_employee_end"
	SettingDeliveryStart             = "delivery_start"
	SettingDeliveryEnd               = "delivery_end"
	SettingPickupStart               = "pickup_start"
	SettingPickupEnd                 = "pickup_end"
)

// Nombres de ventana (prefijo común de las claves start/end).
const (
	WindowSellerRegistration   = "registration_seller"
	WindowEmployeeRegistration = "registration_employee"
	WindowDelivery             = "delivery"
	WindowPickup               = "pickup"
)

// WindowNames lista las ventanas conocidas en orden estable.
var WindowNames = []string{
	WindowSellerRegistration,
	WindowEmployeeRegistration,
	WindowDelivery,
	WindowPickup,
}

// Setting fila clave/valor de la tabla settings.
type Setting struct {
	Key       string
	Value     string
	UpdatedAt time.Time
}

// StartKey y EndKey devuelven las claves de la ventana indicada.
func StartKey(window string) string { return window + "_start" }
func EndKey(window string) string   { return window + "_end" }

// RegistrationWindowFor devuelve la ventana de registro según el rol.
func RegistrationWindowFor(role string) string {
	if role == RoleEmployee {
		return WindowEmployeeRegistration
	}
	return WindowSellerRegistration
}
