package handler

import "time"

// errorResponse is the standard error envelope returned on all 4xx/5xx responses.
type errorResponse struct {
	Error string `json:"error"`
}

type messageResponse struct {
	Message string `json:"message"`
}

// --- Auth ---

type credentialsRequest struct {
	Username string `json:"username" form:"username" validate:"required,max=50"`
	Password string `json:"password" form:"password" validate:"required,max=72"`
}

type createUserRequest struct {
	Username string `json:"username" validate:"required,max=50"`
	Password string `json:"password" validate:"required,max=72"`
	Role     string `json:"role"     validate:"omitempty,oneof=admin user"`
}

type tokenResponse struct {
	AccessToken string `json:"access_token"`
	TokenType   string `json:"token_type"`
	Role        string `json:"role,omitempty"`
}

type userResponse struct {
	ID       int64  `json:"id"`
	Username string `json:"username"`
	Role     string `json:"role"`
}

type adminUserResponse struct {
	ID        int64   `json:"id"`
	Username  string  `json:"username"`
	Role      string  `json:"role"`
	Favorites []int64 `json:"favorites"`
}

// --- Plants ---

type plantResponse struct {
	ID             int64  `json:"id"`
	ExternalID     int64  `json:"external_id"`
	ScientificName string `json:"scientific_name"`
	CommonName     string `json:"common_name"`
	Family         string `json:"family"`
	Genus          string `json:"genus"`
	Rank           string `json:"rank"`
	Author         string `json:"author"`
	Bibliography   string `json:"bibliography"`
	Year           int    `json:"year"`
	Slug           string `json:"slug"`
	Status         string `json:"status"`
	ImageURL       string `json:"image_url"`
	PlantLink      string `json:"plant_link"`
	GenusLink      string `json:"genus_link"`
	SelfLink       string `json:"self_link"`
}

// updatePlantRequest only changes the fields present in the body.
type updatePlantRequest struct {
	ScientificName *string `json:"scientific_name" validate:"omitempty,min=1,max=255"`
	CommonName     *string `json:"common_name"     validate:"omitempty,max=255"`
	Family         *string `json:"family"          validate:"omitempty,max=255"`
	Genus          *string `json:"genus"           validate:"omitempty,max=255"`
	Rank           *string `json:"rank"            validate:"omitempty,max=100"`
	Author         *string `json:"author"          validate:"omitempty,max=255"`
	Year           *int    `json:"year"            validate:"omitempty,gte=0"`
	Slug           *string `json:"slug"            validate:"omitempty,min=1,max=255"`
	Status         *string `json:"status"          validate:"omitempty,max=100"`
	ImageURL       *string `json:"image_url"       validate:"omitempty,max=255"`
}

type listPlantsQuery struct {
	Offset int `query:"offset" validate:"gte=0"`
	Limit  int `query:"limit"  validate:"gte=0"`
}

type randomPlantsQuery struct {
	Count int `query:"count" validate:"gte=0,lte=30"`
}

type randomPlantsResponse struct {
	Page    int             `json:"page"`
	Message string          `json:"message"`
	Plants  []plantResponse `json:"plants"`
}

type checkTokenResponse struct {
	Message    string `json:"message"`
	StatusCode int    `json:"status_code"`
}

// --- Favorites ---

type favoritePlantResponse struct {
	ID             int64  `json:"id"`
	ScientificName string `json:"scientific_name"`
	CommonName     string `json:"common_name"`
	Family         string `json:"family"`
	Genus          string `json:"genus"`
	Rank           string `json:"rank"`
	Author         string `json:"author"`
	Bibliography   string `json:"bibliography"`
	Year           int    `json:"year"`
	ImageURL       string `json:"image_url"`
}

// --- Ingestion audit ---

type ingestionRunResponse struct {
	Page       int       `json:"page"`
	Requested  int       `json:"requested"`
	Added      int       `json:"added"`
	WithImage  int       `json:"with_image"`
	StartedAt  time.Time `json:"started_at"`
	DurationMs int64     `json:"duration_ms"`
	Error      string    `json:"error,omitempty"`
}

type listRunsQuery struct {
	Limit int `query:"limit" validate:"gte=0"`
}

// --- Health ---

type dependencyStatus struct {
	Status string `json:"status"`
	Error  string `json:"error,omitempty"`
}

type readinessResponse struct {
	Status       string                      `json:"status"`
	Dependencies map[string]dependencyStatus `json:"dependencies"`
}
