package model

import "errors"

// ErrInvalidPayload is returned when a payload lacks a field the entity cannot exist without
var ErrInvalidPayload = errors.New("invalid payload")
