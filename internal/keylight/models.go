package keylight

// Light is the on-wire representation of a single light element.
// The device encodes power as 0/1, not a JSON boolean.
type Light struct {
	On          int `json:"on"`
	Brightness  int `json:"brightness"`
	Temperature int `json:"temperature"`
}

// LightGroup is the payload of GET/PUT /elgato/lights
type LightGroup struct {
	NumberOfLights int     `json:"numberOfLights"`
	Lights         []Light `json:"lights"`
}

// AccessoryInfo is the payload of GET /elgato/accessory-info
type AccessoryInfo struct {
	ProductName         string `json:"productName"`
	HardwareBoardType   int    `json:"hardwareBoardType"`
	FirmwareBuildNumber int    `json:"firmwareBuildNumber"`
	FirmwareVersion     string `json:"firmwareVersion"`
	SerialNumber        string `json:"serialNumber"`
	DisplayName         string `json:"displayName"`
}
