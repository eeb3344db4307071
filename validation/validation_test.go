package validation

import (
	"strings"
	"testing"

	"github.com/kbukum/deckurl/errors"
)

func TestValidatorRequired(t *testing.T) {
	tests := []struct {
		value   string
		wantErr bool
	}{
		{"deal-42", false},
		{"", true},
		{"   ", true},
	}
	for _, tc := range tests {
		v := New().Required("deal_id", tc.value)
		if v.HasErrors() != tc.wantErr {
			t.Errorf("Required(%q) errors = %v, want %v", tc.value, v.Errors(), tc.wantErr)
		}
	}
}

func TestValidatorMaxLength(t *testing.T) {
	if New().MaxLength("deal_id", "short", 10).HasErrors() {
		t.Error("expected no error for string within max length")
	}
	if !New().MaxLength("deal_id", "this is too long", 5).HasErrors() {
		t.Error("expected error for string exceeding max length")
	}
}

func TestValidatorNoControlChars(t *testing.T) {
	tests := []struct {
		value   string
		wantErr bool
	}{
		{"deal-42", false},
		{"deal 42", false},
		{"deal\n42", true},
		{"deal\x0042", true},
		{"deal\x7f", true},
	}
	for _, tc := range tests {
		if got := New().NoControlChars("deal_id", tc.value).HasErrors(); got != tc.wantErr {
			t.Errorf("NoControlChars(%q) = %v, want %v", tc.value, got, tc.wantErr)
		}
	}
}

func TestValidatorOneOf(t *testing.T) {
	backends := []string{"memory", "redis"}
	if New().OneOf("backend", "redis", backends).HasErrors() {
		t.Error("expected no error for valid oneOf value")
	}
	v := New().OneOf("backend", "mongo", backends)
	if !v.HasErrors() {
		t.Fatal("expected error for invalid oneOf value")
	}
	if !strings.Contains(v.Errors()[0].Message, "memory, redis") {
		t.Errorf("message = %q", v.Errors()[0].Message)
	}
	if New().OneOf("backend", "", backends).HasErrors() {
		t.Error("expected no error for empty oneOf value")
	}
}

func TestValidatorCustom(t *testing.T) {
	if New().Custom(true, "field", "should pass").HasErrors() {
		t.Error("expected no error for true condition")
	}
	v := New().Custom(false, "field", "custom error")
	if !v.HasErrors() || v.Errors()[0].Message != "custom error" {
		t.Errorf("errors = %v", v.Errors())
	}
}

func TestValidatorValidate(t *testing.T) {
	if appErr := New().Required("deal_id", "deal-1").Validate(); appErr != nil {
		t.Errorf("expected nil for valid input, got %v", appErr)
	}
	if err := New().Required("deal_id", "deal-1").Err(); err != nil {
		t.Errorf("Err() = %v, want nil", err)
	}

	appErr := New().Required("deal_id", "").Required("url", "").Validate()
	if appErr == nil {
		t.Fatal("expected error")
	}
	if appErr.Code != errors.ErrCodeInvalidInput {
		t.Errorf("code = %s", appErr.Code)
	}
	if !strings.Contains(appErr.Message, "deal_id") || !strings.Contains(appErr.Message, "url") {
		t.Errorf("expected both fields in message, got %q", appErr.Message)
	}
	fields, ok := appErr.Details["fields"].([]FieldError)
	if !ok || len(fields) != 2 {
		t.Errorf("details fields = %v", appErr.Details["fields"])
	}
}

func TestValidatorChaining(t *testing.T) {
	v := New()
	result := v.Required("deal_id", "d").MaxLength("deal_id", "d", 100).NoControlChars("deal_id", "d")
	if result != v {
		t.Error("expected chaining to return same validator")
	}
	if v.HasErrors() {
		t.Error("expected no errors for valid chained validation")
	}
}

func TestRequiredFunc(t *testing.T) {
	if err := Required("deal_id", "value"); err != nil {
		t.Errorf("expected nil, got %v", err)
	}
	if err := Required("deal_id", ""); err == nil {
		t.Error("expected error for empty required field")
	}
}

type redisSection struct {
	Addr string `mapstructure:"addr" validate:"omitempty,hostname_port"`
	DB   int    `mapstructure:"db" validate:"gte=0,lte=15"`
}

type sectionedConfig struct {
	Backend string       `mapstructure:"backend" validate:"required,oneof=memory redis"`
	Redis   redisSection `mapstructure:"redis"`
}

func TestStructValidateValid(t *testing.T) {
	cfg := sectionedConfig{Backend: "redis", Redis: redisSection{Addr: "localhost:6379", DB: 1}}
	if err := Validate(cfg); err != nil {
		t.Errorf("expected no error, got %v", err)
	}
}

func TestStructValidateInvalid(t *testing.T) {
	tests := []struct {
		name      string
		cfg       sectionedConfig
		wantField string
		wantMsg   string
	}{
		{"missing backend", sectionedConfig{}, "backend", "is required"},
		{"unknown backend", sectionedConfig{Backend: "mongo"}, "backend", "must be one of: memory redis"},
		{"bad addr", sectionedConfig{Backend: "redis", Redis: redisSection{Addr: "nohost"}}, "redis.addr", "must be host:port"},
		{"db range", sectionedConfig{Backend: "redis", Redis: redisSection{DB: 16}}, "redis.db", "must be at most 15"},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			err := Validate(tc.cfg)
			if err == nil {
				t.Fatal("expected validation error")
			}
			appErr, ok := errors.AsAppError(err)
			if !ok {
				t.Fatalf("expected AppError, got %T", err)
			}
			fields := appErr.Details["fields"].([]FieldError)
			if len(fields) != 1 {
				t.Fatalf("fields = %v", fields)
			}
			if fields[0].Field != tc.wantField || fields[0].Message != tc.wantMsg {
				t.Errorf("field error = %+v, want %s: %s", fields[0], tc.wantField, tc.wantMsg)
			}
		})
	}
}

func TestToSnakeCase(t *testing.T) {
	tests := map[string]string{
		"DealID":  "deal_i_d",
		"Backend": "backend",
		"MaxSize": "max_size",
	}
	for in, want := range tests {
		if got := toSnakeCase(in); got != want {
			t.Errorf("toSnakeCase(%q) = %q, want %q", in, got, want)
		}
	}
}
