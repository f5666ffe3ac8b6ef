package main

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"

	"event-planner/planner"

	"github.com/go-playground/validator"
	"github.com/sirupsen/logrus"
)

type successJSON struct {
	Status string      `json:"status"`
	Data   interface{} `json:"data"`
}

type errorJSON struct {
	Status  string `json:"status"`
	Message string `json:"message"`
}

func marshalAndSend(w http.ResponseWriter, jsonRes interface{}, statusCode int) error {
	switch jsonRes.(type) {
	case successJSON, errorJSON:
		payload, err := json.Marshal(jsonRes)
		if err != nil {
			return err
		}
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(statusCode)

		// write the json out
		_, err = w.Write(payload)
		if err != nil {
			return err
		}
	default:
		return fmt.Errorf("unsupported type: %T", jsonRes)
	}
	return nil
}

func (app *application) SendSuccessJSON(w http.ResponseWriter, statusCode int, data interface{}, wrap ...string) error {
	jsonRes := successJSON{
		Status: "success",
	}

	if len(wrap) > 0 {
		jsonRes.Data = map[string]interface{}{wrap[0]: data}
	} else {
		jsonRes.Data = data
	}

	return marshalAndSend(w, jsonRes, statusCode)
}

func (app *application) SendErrorJSON(w http.ResponseWriter, statusCode int, err error) error {
	jsonRes := errorJSON{}
	if statusCode >= 500 {
		jsonRes.Status = "error"
	} else {
		jsonRes.Status = "fail"
	}

	jsonRes.Message = err.Error()

	return marshalAndSend(w, jsonRes, statusCode)
}

var validate = validator.New()

func (app *application) ReadJSON(w http.ResponseWriter, r *http.Request, data interface{}, validationReq bool) error {
	maxBytes := 1024 * 1024 // one megabyte
	r.Body = http.MaxBytesReader(w, r.Body, int64(maxBytes))
	dec := json.NewDecoder(r.Body)
	dec.DisallowUnknownFields()

	// attempt to decode the data
	err := dec.Decode(data)
	if err != nil {
		return err
	}

	// make sure only one JSON value in payload
	err = dec.Decode(&struct{}{})
	if err != io.EOF {
		return errors.New("body must only contain a single JSON value")
	}

	if validationReq {
		err := validate.Struct(data)
		if err != nil {
			return err
		}
	}

	return nil
}

// errorStatus maps a planner error kind to its HTTP status.
func errorStatus(kind planner.Kind) int {
	switch kind {
	case planner.Validation, planner.InvalidState, planner.Invariant:
		return http.StatusBadRequest
	case planner.Forbidden:
		return http.StatusForbidden
	case planner.NotFound:
		return http.StatusNotFound
	}
	return http.StatusInternalServerError
}

// handleError writes err as an error envelope. Domain errors carry their own
// message; anything else is logged and hidden behind a generic one.
func (app *application) handleError(w http.ResponseWriter, r *http.Request, err error) {
	kind := planner.KindOf(err)
	status := errorStatus(kind)

	fields := logrus.Fields{"method": r.Method, "path": r.URL.Path}
	if id, ok := userFromContext(r.Context()); ok {
		fields["user"] = id
	}

	if status >= 500 {
		app.Log.WithFields(fields).WithError(err).Error("request failed")
		err = errors.New("the server encountered a problem and could not process your request")
	} else {
		app.Log.WithFields(fields).WithField("kind", kind).Debug(err.Error())
	}

	if werr := app.SendErrorJSON(w, status, err); werr != nil {
		app.Log.WithError(werr).Error("failed to write error response")
	}
}

// badRequest reports a malformed request body or parameter.
func (app *application) badRequest(w http.ResponseWriter, err error) {
	if werr := app.SendErrorJSON(w, http.StatusBadRequest, err); werr != nil {
		app.Log.WithError(werr).Error("failed to write error response")
	}
}

func (app *application) writeJSON(w http.ResponseWriter, status int, data interface{}, wrap ...string) {
	if err := app.SendSuccessJSON(w, status, data, wrap...); err != nil {
		app.Log.WithError(err).Error("failed to write response")
	}
}
