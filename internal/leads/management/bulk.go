package management

import (
	"context"
	"encoding/csv"
	"fmt"
	"io"
	"strings"

	"github.com/google/uuid"

	"partner_portal_backend/internal/leads/transport"
	"partner_portal_backend/internal/shared/actor"
	"partner_portal_backend/platform/apperr"
)

// BulkUploadCSV ingests leads from a CSV stream. Expected header:
// name,phone,specialisation[,remarks]. Each row runs the full intake flow, so
// duplicates produce audit rows and are counted separately. Row failures do
// not abort the batch.
func (s *Service) BulkUploadCSV(ctx context.Context, r io.Reader, act actor.Actor, hospitalID *uuid.UUID) (transport.BulkUploadResponse, error) {
	reader := csv.NewReader(r)
	reader.TrimLeadingSpace = true

	header, err := reader.Read()
	if err != nil {
		return transport.BulkUploadResponse{}, apperr.Validation("empty or unreadable CSV")
	}

	cols := make(map[string]int, len(header))
	for i, name := range header {
		cols[strings.ToLower(strings.TrimSpace(name))] = i
	}
	for _, required := range []string{"name", "phone", "specialisation"} {
		if _, ok := cols[required]; !ok {
			return transport.BulkUploadResponse{}, apperr.Validation(fmt.Sprintf("missing required column %q", required))
		}
	}

	var resp transport.BulkUploadResponse
	line := 1
	for {
		record, err := reader.Read()
		if err == io.EOF {
			break
		}
		line++
		if err != nil {
			resp.Failed++
			resp.Errors = append(resp.Errors, fmt.Sprintf("line %d: %v", line, err))
			continue
		}

		req := transport.CreateLeadRequest{
			Name:           field(record, cols, "name"),
			Phone:          field(record, cols, "phone"),
			Specialisation: field(record, cols, "specialisation"),
		}
		if remarks := field(record, cols, "remarks"); remarks != "" {
			req.Remarks = &remarks
		}
		req.HospitalID = hospitalID

		_, err = s.Create(ctx, req, act, nil)
		switch {
		case err == nil:
			resp.Created++
		case apperr.Is(err, apperr.KindBadRequest):
			resp.Duplicates++
		default:
			resp.Failed++
			resp.Errors = append(resp.Errors, fmt.Sprintf("line %d: %v", line, err))
		}
	}

	return resp, nil
}

func field(record []string, cols map[string]int, name string) string {
	idx, ok := cols[name]
	if !ok || idx >= len(record) {
		return ""
	}
	return strings.TrimSpace(record[idx])
}
