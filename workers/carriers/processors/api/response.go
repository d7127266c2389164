package api

type OAuthResponse struct {
	TokenType   string `json:"token_type"`
	ExpiresIn   string `json:"expires_in"`
	AccessToken string `json:"access_token"`
}

type Status struct {
	Code        string `json:"code"`
	Description string `json:"description"`
}

type Address struct {
	City        string `json:"city"`
	State       string `json:"stateProvince"`
	Country     string `json:"country"`
	CountryCode string `json:"countryCode"`
	UNLocode    string `json:"unLocode"`
}

type Location struct {
	Name    string  `json:"name"`
	Address Address `json:"address"`
}

type Activity struct {
	Location Location `json:"location"`
	Date     string   `json:"gmtDate"`
	Time     string   `json:"gmtTime"`
	Status   Status   `json:"status"`
}

type Container struct {
	ContainerNumber string     `json:"containerNumber"`
	BookingNumber   string     `json:"bookingNumber"`
	CurrentStatus   Status     `json:"currentStatus"`
	Activity        []Activity `json:"activity"`
}

type TrackingResponse struct {
	Containers []Container `json:"container"`
}

type ApiResponse struct {
	Response TrackingResponse `json:"trackResponse"`
}
