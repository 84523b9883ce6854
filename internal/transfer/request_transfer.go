package transfer

// JSON request bodies accepted by the API endpoints.

type InstagramConnectRequest struct {
	Code        string `json:"code"`
	RedirectURI string `json:"redirectUri"`
}

type PublishRequest struct {
	ScheduledPostID int64 `json:"scheduledPostId"`
}

type StatusRequest struct {
	UserID int64 `json:"userId"`
}

type GeneratedPostCreation struct {
	Caption  string   `json:"caption"`
	Hashtags []string `json:"hashtags"`
	ImageURL string   `json:"imageUrl"`
	AltText  string   `json:"altText"`
}

type SchedulePostRequest struct {
	GeneratedPostID int64  `json:"generatedPostId"`
	ScheduledAt     string `json:"scheduledAt"` // "2006-01-02T15:04"
}

type ProfileUpdate struct {
	CompanyName string `json:"companyName"`
}
