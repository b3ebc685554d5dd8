package handler

const (
	// BaseLayout is the default path for layout templates.
	BaseLayout = "layouts/base"

	// RootPath is the root path the route group.
	RootPath = "/"

	// LoginPath is the sign-in page, the target of every auth redirect.
	LoginPath = RootPath + "login"

	// DashboardPath is the landing page after sign-in.
	DashboardPath = RootPath + "dashboard"

	// TemplateError is the standalone error state with a retry link.
	TemplateError = "error"

	// ErrNilACDFatalLogMsg is used if app, cfg, db or api is nil.
	ErrNilACDFatalLogMsg = "app, cfg, db or api is nil"
)

// fiber.Ctx locals keys.
const (
	// LocalsCurrentUser holds the signed-in authapi.User for templates.
	LocalsCurrentUser = "CurrentUser"

	// LocalsSession holds the *session.Data of the request.
	LocalsSession = "Session"
)
