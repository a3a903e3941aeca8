package integrations

const (
	ServiceGoogleCalendar = "google_calendar"
	ServiceGoogleSheets   = "google_sheets"
	ServiceWhatsApp       = "whatsapp"
	ServiceEmail          = "email"
	ServiceSlack          = "slack"
	ServiceNotion         = "notion"
)

// DefaultService is an integration row created with every chatbot.
type DefaultService struct {
	ServiceName string
	DisplayName string
}

// DefaultServices are seeded, disabled and disconnected, for each new chatbot.
var DefaultServices = []DefaultService{
	{ServiceName: ServiceGoogleCalendar, DisplayName: "Google Calendar"},
	{ServiceName: ServiceGoogleSheets, DisplayName: "Google Sheets"},
	{ServiceName: ServiceWhatsApp, DisplayName: "WhatsApp Business"},
	{ServiceName: ServiceEmail, DisplayName: "Email (SMTP)"},
}
