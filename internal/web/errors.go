package web

const (
	msgInternal           = "Something went wrong. Please try again."
	msgInvalidCredentials = "Invalid email or password"
	msgMissingCredentials = "Email and password are required"
	msgEmailTaken         = "An account with this email already exists"
	msgNameMissing        = "First and last name are required"
	msgInvalidEmail       = "Invalid email format"
	msgWeakPassword       = "Password must be at least 8 characters long and contain a number"
	msgResetSent          = "If that email is registered, a reset link is on its way."
	msgResetDone          = "Your password has been updated. You can log in now."
	msgResetInvalid       = "This reset link is invalid or has expired"
	msgProductRequired    = "Product is required"
	msgInvalidQuantity    = "Quantity must be at least 1"
	msgInvalidStatus      = "Unknown order status"
	msgNameRequired       = "Enter a first or last name to update"
	msgProfileSaved       = "Profile updated"
	msgShipmentNotFound   = "No shipment found for that tracking number"
	msgShipmentForbidden  = "That shipment belongs to another account"
	msgTooManyAttempts    = "Too many login attempts. Please wait a minute and try again."
)
