package openapi

import "net/http"

// statusResponse describes the canned response for a status code: its
// description and whether the response carries a body at all (204 and 406
// never do).
type statusResponse struct {
	description string
	hasContent  bool
}

// statusResponses maps status codes to their canned descriptions, used both
// by the static status-code tables and as the fallback description for
// status-code overrides in doc blocks.
var statusResponses = map[int]statusResponse{
	http.StatusOK:                  {"Successful", true},
	http.StatusCreated:             {"Created", true},
	http.StatusAccepted:            {"Update Accepted", true},
	http.StatusNoContent:           {"Empty Content", false},
	http.StatusBadRequest:          {"Invalid Content", true},
	http.StatusUnauthorized:        {"Unauthorized", true},
	http.StatusForbidden:           {"Forbidden", true},
	http.StatusNotFound:            {"Not Found", true},
	http.StatusNotAcceptable:       {"Not Acceptable", false},
	http.StatusInternalServerError: {"Internal Server Error", true},
	http.StatusBadGateway:          {"Bad Gateway", true},
	http.StatusServiceUnavailable:  {"Service Unavailable", true},
}

// methodCodes lists the success codes (carrying the model schema) and error
// codes (carrying the default error schema) emitted for a method in static
// status-code mode.
type methodCodes struct {
	success []int
	errors  []int
}

// methodStatusCodes holds the per-method response tables, split between
// single-object endpoints (one) and collection endpoints (many). Collection
// writes respond 200 with the processed items rather than the single-object
// 201/202/204 conventions.
var methodStatusCodes = map[string]struct{ one, many methodCodes }{
	http.MethodGet: {
		one:  methodCodes{success: []int{200}, errors: []int{401, 403, 404}},
		many: methodCodes{success: []int{200}, errors: []int{401, 403}},
	},
	http.MethodPost: {
		one:  methodCodes{success: []int{201}, errors: []int{400, 401, 403}},
		many: methodCodes{success: []int{200}, errors: []int{400, 401, 403}},
	},
	http.MethodPatch: {
		one:  methodCodes{success: []int{200, 204}, errors: []int{400, 401, 403}},
		many: methodCodes{success: []int{200}, errors: []int{400, 401, 403}},
	},
	http.MethodPut: {
		one:  methodCodes{success: []int{202}, errors: []int{400, 401, 403}},
		many: methodCodes{success: []int{200}, errors: []int{400, 401, 403}},
	},
	http.MethodDelete: {
		one:  methodCodes{success: []int{204}, errors: []int{400, 401, 403, 406}},
		many: methodCodes{success: []int{200}, errors: []int{400, 401, 403}},
	},
}

// defaultErrorSchema returns the schema used for error responses that do not
// declare an explicit schema: an object with a single "detail" message.
func defaultErrorSchema() *Schema {
	return &Schema{
		Type: "object",
		Properties: map[string]*Schema{
			"detail": {Type: "string", Description: "Error message"},
		},
	}
}

// statusDescription returns the canned description for a status code,
// falling back to the standard status text for codes outside the table.
func statusDescription(code int) string {
	if resp, ok := statusResponses[code]; ok {
		return resp.description
	}
	return http.StatusText(code)
}
