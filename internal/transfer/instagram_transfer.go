package transfer

// DTOs for the Facebook/Instagram Graph API calls used by the connect,
// refresh and publish flows.

type GraphTokenResponse struct {
	AccessToken string `json:"access_token"`
	TokenType   string `json:"token_type"`
	ExpiresIn   int64  `json:"expires_in"`
}

type FacebookPage struct {
	ID          string `json:"id"`
	Name        string `json:"name"`
	AccessToken string `json:"access_token"`
	Category    string `json:"category"`
}

type FacebookPageList struct {
	Data []FacebookPage `json:"data"`
}

type PageInstagramAccount struct {
	ID                       string `json:"id"`
	InstagramBusinessAccount *struct {
		ID string `json:"id"`
	} `json:"instagram_business_account"`
}

type InstagramAccountInfo struct {
	ID       string `json:"id"`
	Username string `json:"username"`
}

type MediaContainerResponse struct {
	ID string `json:"id"`
}

type MediaPublishResponse struct {
	ID string `json:"id"`
}

type ConnectionStatus struct {
	Connected       bool   `json:"connected"`
	InstagramUserID string `json:"instagramUserId"`
	Username        string `json:"username"`
	TokenExpiresAt  string `json:"tokenExpiresAt,omitempty"`
}

type GraphErrorResponse struct {
	Error struct {
		Message        string `json:"message"`
		Type           string `json:"type"`
		Code           int    `json:"code"`
		ErrorSubcode   int    `json:"error_subcode"`
		IsTransient    bool   `json:"is_transient"`
		ErrorUserTitle string `json:"error_user_title"`
		ErrorUserMsg   string `json:"error_user_msg"`
		FbtraceID      string `json:"fbtrace_id"`
	} `json:"error"`
}
