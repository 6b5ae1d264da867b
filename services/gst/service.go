package gst

import (
	"context"
	"errors"
	"strings"

	gstClient "marketing-crm/httpServices/gst"
	"marketing-crm/logger"
	"marketing-crm/metrics"
	"marketing-crm/types"
	"marketing-crm/types/subdealer"
	"marketing-crm/utils"
)

// Registry looks up a taxpayer record.
type Registry interface {
	Lookup(ctx context.Context, gstin string) (*gstClient.TaxpayerInfo, error)
}

// Service returns GST details from the registry, or mock data when no
// registry is configured.
type Service struct {
	registry   Registry
	production bool
}

// NewService takes a nil registry when no API credential is configured.
func NewService(registry Registry, production bool) *Service {
	return &Service{registry: registry, production: production}
}

// FetchDetails expects a validated, upper-cased GST number.
func (s *Service) FetchDetails(ctx context.Context, gstNumber string) (*subdealer.GstDetails, error) {
	if s.registry == nil {
		metrics.GSTLookupsTotal.WithLabelValues("mock", "success").Inc()
		return MockDetails(gstNumber), nil
	}

	info, err := s.registry.Lookup(ctx, gstNumber)
	if err == nil {
		metrics.GSTLookupsTotal.WithLabelValues("provider", "success").Inc()
		return mapTaxpayer(gstNumber, info), nil
	}

	if s.production {
		if errors.Is(err, gstClient.ErrNotFound) {
			metrics.GSTLookupsTotal.WithLabelValues("provider", "not_found").Inc()
			return nil, types.NewError(types.KindNotFound, "No taxpayer is registered with this GST number")
		}
		metrics.GSTLookupsTotal.WithLabelValues("provider", "failed").Inc()
		logger.Error("GST lookup failed for "+gstNumber, err)
		return nil, types.WrapError(types.KindUpstreamUnavailable, "GST lookup service is unavailable. Please try again later", err)
	}

	metrics.GSTLookupsTotal.WithLabelValues("fallback", "success").Inc()
	logger.Warning("GST lookup failed for " + gstNumber + ", using mock data: " + err.Error())
	return MockDetails(gstNumber), nil
}

func mapTaxpayer(gstNumber string, info *gstClient.TaxpayerInfo) *subdealer.GstDetails {
	addr := info.PrincipalAddr.Addr

	line1 := joinNonEmpty(", ", addr.BuildingNumber, addr.Floor, addr.BuildingName)
	line2 := joinNonEmpty(", ", addr.Street, addr.Location)
	city := addr.City
	if city == "" {
		city = addr.Location
	}

	return &subdealer.GstDetails{
		GSTNumber:        gstNumber,
		LegalName:        strings.TrimSpace(info.LegalName),
		TradeName:        strings.TrimSpace(info.TradeName),
		AddressLine1:     line1,
		AddressLine2:     line2,
		City:             city,
		District:         addr.District,
		State:            firstNonEmpty(addr.State, StateName(gstNumber[:2])),
		StateCode:        gstNumber[:2],
		Pincode:          addr.Pincode,
		PAN:              utils.PANFromGST(gstNumber),
		RegistrationDate: info.RegisteredOn,
		BusinessType:     info.BusinessType,
		Status:           info.Status,
		Jurisdiction:     info.Jurisdiction,
	}
}

func joinNonEmpty(sep string, parts ...string) string {
	var kept []string
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			kept = append(kept, p)
		}
	}
	return strings.Join(kept, sep)
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if v != "" {
			return v
		}
	}
	return ""
}
