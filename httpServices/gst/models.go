package gst

// LookupResponse is the envelope returned by the GST registry API.
type LookupResponse struct {
	Flag    bool          `json:"flag"`
	Message string        `json:"message"`
	Data    *TaxpayerInfo `json:"data"`
}

// TaxpayerInfo uses the registry's abbreviated field names.
type TaxpayerInfo struct {
	GSTIN          string        `json:"gstin"`
	LegalName      string        `json:"lgnm"`
	TradeName      string        `json:"tradeNam"`
	PrincipalAddr  PrincipalAddr `json:"pradr"`
	RegisteredOn   string        `json:"rgdt"`
	BusinessType   string        `json:"ctb"`
	Status         string        `json:"sts"`
	Jurisdiction   string        `json:"stj"`
	CentreJurisdic string        `json:"ctj"`
	NatureOfBiz    []string      `json:"nba"`
}

type PrincipalAddr struct {
	Addr Address `json:"addr"`
}

type Address struct {
	BuildingNumber string `json:"bno"`
	BuildingName   string `json:"bnm"`
	Floor          string `json:"flno"`
	Street         string `json:"st"`
	Location       string `json:"loc"`
	District       string `json:"dst"`
	State          string `json:"stcd"`
	Pincode        string `json:"pncd"`
	City           string `json:"city"`
}
