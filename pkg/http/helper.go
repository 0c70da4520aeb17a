package http

import (
	"net/http"
	"strconv"

	"roombook/pkg/config"
	apperrors "roombook/pkg/errors"
)

// ExtractPage reads the page and page_size query parameters. Missing values
// fall back to the first page of DefaultPageSize items; range checks are left
// to the services.
func ExtractPage(r *http.Request) (int, int, error) {
	query := r.URL.Query()

	page := 1
	if s := query.Get("page"); s != "" {
		v, err := strconv.Atoi(s)
		if err != nil {
			return 0, 0, apperrors.MalformedInput("page", "invalid page parameter: "+s)
		}
		page = v
	}

	pageSize := config.DefaultPageSize
	if s := query.Get("page_size"); s != "" {
		v, err := strconv.Atoi(s)
		if err != nil {
			return 0, 0, apperrors.MalformedInput("page", "invalid page_size parameter: "+s)
		}
		pageSize = v
	}

	return page, pageSize, nil
}
