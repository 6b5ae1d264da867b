package gst

import (
	"fmt"

	"marketing-crm/types/subdealer"
	"marketing-crm/utils"
)

var stateNames = map[string]string{
	"01": "Jammu and Kashmir", "02": "Himachal Pradesh", "03": "Punjab", "04": "Chandigarh",
	"05": "Uttarakhand", "06": "Haryana", "07": "Delhi", "08": "Rajasthan",
	"09": "Uttar Pradesh", "10": "Bihar", "11": "Sikkim", "12": "Arunachal Pradesh",
	"13": "Nagaland", "14": "Manipur", "15": "Mizoram", "16": "Tripura",
	"17": "Meghalaya", "18": "Assam", "19": "West Bengal", "20": "Jharkhand",
	"21": "Odisha", "22": "Chhattisgarh", "23": "Madhya Pradesh", "24": "Gujarat",
	"26": "Dadra and Nagar Haveli and Daman and Diu", "27": "Maharashtra", "29": "Karnataka",
	"30": "Goa", "31": "Lakshadweep", "32": "Kerala", "33": "Tamil Nadu",
	"34": "Puducherry", "35": "Andaman and Nicobar Islands", "36": "Telangana",
	"37": "Andhra Pradesh", "38": "Ladakh",
}

var mockCities = []string{"Mumbai", "Pune", "Bengaluru", "Chennai", "Hyderabad", "Kolkata", "Ahmedabad", "Jaipur"}

var mockBusinessTypes = []string{"Proprietorship", "Partnership", "Private Limited Company", "Limited Liability Partnership"}

// StateName maps the two digit GST state code to its name.
func StateName(code string) string {
	if name, ok := stateNames[code]; ok {
		return name
	}
	return "Unknown"
}

// MockDetails builds a record that depends only on gst, which must already
// be validated and upper-cased.
func MockDetails(gst string) *subdealer.GstDetails {
	pan := utils.PANFromGST(gst)
	seed := 0
	for _, r := range gst {
		seed = (seed*31 + int(r)) % 100003
	}
	city := mockCities[seed%len(mockCities)]
	stateCode := gst[:2]

	return &subdealer.GstDetails{
		GSTNumber:        gst,
		LegalName:        fmt.Sprintf("%s Enterprises Private Limited", pan),
		TradeName:        fmt.Sprintf("%s Traders", pan[:5]),
		AddressLine1:     fmt.Sprintf("%d, Industrial Estate", seed%500+1),
		AddressLine2:     fmt.Sprintf("Sector %d", seed%40+1),
		City:             city,
		District:         city,
		State:            StateName(stateCode),
		StateCode:        stateCode,
		Pincode:          fmt.Sprintf("%06d", 400000+seed%99999),
		PAN:              pan,
		RegistrationDate: fmt.Sprintf("%02d/%02d/%d", seed%28+1, seed%12+1, 2017+seed%7),
		BusinessType:     mockBusinessTypes[seed%len(mockBusinessTypes)],
		Status:           "Active",
		Jurisdiction:     fmt.Sprintf("State - %s, Ward %d", StateName(stateCode), seed%90+10),
		IsMock:           true,
	}
}
