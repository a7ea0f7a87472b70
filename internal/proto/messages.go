package proto

type Image struct {
	MimeType string `json:"mimeType"`
	Data     []byte `json:"data"`
}

type Settings struct {
	DefaultStyle        string `json:"defaultStyle"`
	DefaultFocusMinutes int32  `json:"defaultFocusMinutes"`
	GentleAnimations    bool   `json:"gentleAnimations"`
	HapticFeedback      bool   `json:"hapticFeedback"`
	LargerText          bool   `json:"largerText"`
	HighContrast        bool   `json:"highContrast"`
}

type SettingsPatch struct {
	DefaultStyle        *string `json:"defaultStyle,omitempty"`
	DefaultFocusMinutes *int32  `json:"defaultFocusMinutes,omitempty"`
	GentleAnimations    *bool   `json:"gentleAnimations,omitempty"`
	HapticFeedback      *bool   `json:"hapticFeedback,omitempty"`
	LargerText          *bool   `json:"largerText,omitempty"`
	HighContrast        *bool   `json:"highContrast,omitempty"`
}

type Profile struct {
	UserId   string    `json:"userId"`
	Email    string    `json:"email"`
	Name     string    `json:"name"`
	Settings *Settings `json:"settings"`
}

type Space struct {
	Id          string `json:"id"`
	OwnerId     string `json:"ownerId"`
	Name        string `json:"name"`
	CreatedDate string `json:"createdDate"`
	Kind        string `json:"kind"`
	Note        string `json:"note,omitempty"`
	AfterImage  *Image `json:"afterImage"`
	BeforeImage *Image `json:"beforeImage,omitempty"`
}

type RegisterRequest struct {
	Email    string `json:"email"`
	Name     string `json:"name"`
	Salt     []byte `json:"salt"`
	Verifier []byte `json:"verifier"`
}

type RegisterResponse struct {
	UserId string `json:"userId"`
}

type GetSaltRequest struct {
	Email string `json:"email"`
}

type GetSaltResponse struct {
	Salt []byte `json:"salt"`
}

type LoginRequest struct {
	Email    string `json:"email"`
	Verifier []byte `json:"verifier"`
}

type LoginResponse struct {
	AccessToken  string   `json:"accessToken"`
	RefreshToken string   `json:"refreshToken"`
	Profile      *Profile `json:"profile"`
}

type RefreshTokenRequest struct {
	RefreshToken string `json:"refreshToken"`
}

type RefreshTokenResponse struct {
	AccessToken  string `json:"accessToken"`
	RefreshToken string `json:"refreshToken"`
}

type LogoutRequest struct {
	RefreshToken string `json:"refreshToken"`
}

type LogoutResponse struct{}

type GetProfileRequest struct{}

type UpdateSettingsRequest struct {
	Patch *SettingsPatch `json:"patch"`
}

type ProfileResponse struct {
	Profile *Profile `json:"profile"`
}

type DeleteAccountRequest struct{}

type DeleteAccountResponse struct{}

type ListSpacesRequest struct{}

type ListSpacesResponse struct {
	Spaces []*Space `json:"spaces"`
}

type CreateSpaceRequest struct {
	Space *Space `json:"space"`
}

type CreateSpaceResponse struct{}

type UpdateSpaceRequest struct {
	Id          string `json:"id"`
	Name        string  `json:"name,omitempty"`
	Note        *string `json:"note,omitempty"`
	AfterImage  *Image  `json:"afterImage,omitempty"`
	BeforeImage *Image  `json:"beforeImage,omitempty"`
}

type UpdateSpaceResponse struct{}

type DeleteSpaceRequest struct {
	Id string `json:"id"`
}

type DeleteSpaceResponse struct{}

type PingRequest struct{}

type PingResponse struct {
	Status string `json:"status"`
}
