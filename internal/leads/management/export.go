package management

import (
	"bytes"
	"context"
	"encoding/csv"
	"strconv"
	"time"

	"partner_portal_backend/internal/leads/repository"
	"partner_portal_backend/internal/leads/transport"
	"partner_portal_backend/internal/shared/actor"
)

var exportHeader = []string{
	"Name", "Phone", "Status", "Points", "Remarks",
	"Partner", "Sales Person", "Hospital", "Created By", "Created At",
}

// ExportCSV renders the actor's role-scoped leads as CSV. Exports cover the
// whole filtered result set, not a page.
func (s *Service) ExportCSV(ctx context.Context, req transport.ExportLeadsRequest, act actor.Actor) ([]byte, error) {
	params := exportListParams(req, act)

	rows, err := s.repo.ListForExport(ctx, params)
	if err != nil {
		return nil, err
	}

	var buf bytes.Buffer
	w := csv.NewWriter(&buf)

	if err := w.Write(exportHeader); err != nil {
		return nil, err
	}
	for _, row := range rows {
		record := []string{
			row.Name,
			row.Phone,
			row.Status,
			strconv.Itoa(row.Points),
			deref(row.Remarks),
			deref(row.PartnerName),
			deref(row.SalesPersonName),
			row.HospitalName,
			row.CreatedByName,
			row.CreatedAt.Format(time.RFC3339),
		}
		if err := w.Write(record); err != nil {
			return nil, err
		}
	}

	w.Flush()
	if err := w.Error(); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// exportListParams applies the actor's role scope on top of the export
// filters. The author filter is superadmin-only.
func exportListParams(req transport.ExportLeadsRequest, act actor.Actor) repository.ListParams {
	params := repository.ListParams{
		Status: req.Status,
		From:   req.From,
		To:     req.To,
	}

	switch act.Role {
	case actor.RoleSuperadmin:
		params.PartnerID = req.PartnerID
		params.SalesPersonID = req.SalesPersonID
		params.CreatedByID = req.CreatedByID
	case actor.RoleAdmin:
		params.HospitalID = act.HospitalID
		params.PartnerID = req.PartnerID
		params.SalesPersonID = req.SalesPersonID
	case actor.RolePartner:
		id := act.ID
		params.PartnerID = &id
	case actor.RoleSalesPerson:
		id := act.ID
		params.SalesPersonID = &id
	}

	return params
}

func deref(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}
