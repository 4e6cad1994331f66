package storage

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/Dosada05/league-tracker/models"
	"gopkg.in/yaml.v3"
)

// Codec serializes league records for file and object stores.
type Codec interface {
	Extension() string
	ContentType() string
	Encode(w io.Writer, rec *LeagueRecord) error
	Decode(r io.Reader, rec *LeagueRecord) error
}

// CodecFor returns the codec for "json" or "yaml".
func CodecFor(format string) (Codec, error) {
	switch strings.ToLower(format) {
	case "", "json":
		return JSONCodec{}, nil
	case "yaml", "yml":
		return YAMLCodec{}, nil
	}
	return nil, fmt.Errorf("unsupported storage format %q", format)
}

type JSONCodec struct{}

func (JSONCodec) Extension() string   { return ".json" }
func (JSONCodec) ContentType() string { return "application/json" }

func (JSONCodec) Encode(w io.Writer, rec *LeagueRecord) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	enc.SetEscapeHTML(false)
	return enc.Encode(rec)
}

func (JSONCodec) Decode(r io.Reader, rec *LeagueRecord) error {
	dec := json.NewDecoder(r)
	dec.DisallowUnknownFields()
	if err := dec.Decode(rec); err != nil {
		var typeErr *json.UnmarshalTypeError
		if errors.As(err, &typeErr) && typeErr.Field != "" {
			return fmt.Errorf("%w: field %q has the wrong type", ErrMalformedRecord, typeErr.Field)
		}
		return fmt.Errorf("%w: %v", ErrMalformedRecord, err)
	}
	if err := dec.Decode(&struct{}{}); !errors.Is(err, io.EOF) {
		return fmt.Errorf("%w: trailing data after the league object", ErrMalformedRecord)
	}
	return nil
}

type YAMLCodec struct{}

func (YAMLCodec) Extension() string   { return ".yaml" }
func (YAMLCodec) ContentType() string { return "application/yaml" }

func (YAMLCodec) Encode(w io.Writer, rec *LeagueRecord) error {
	enc := yaml.NewEncoder(w)
	enc.SetIndent(2)
	if err := enc.Encode(rec); err != nil {
		return err
	}
	return enc.Close()
}

func (YAMLCodec) Decode(r io.Reader, rec *LeagueRecord) error {
	dec := yaml.NewDecoder(r)
	dec.KnownFields(true)
	if err := dec.Decode(rec); err != nil {
		return fmt.Errorf("%w: %v", ErrMalformedRecord, err)
	}
	return nil
}

// EncodeLeague writes a league snapshot with the given codec.
func EncodeLeague(c Codec, w io.Writer, l *models.League) error {
	rec := ToRecord(l)
	return c.Encode(w, &rec)
}

// DecodeLeague reads and validates a league snapshot.
func DecodeLeague(c Codec, r io.Reader) (*models.League, error) {
	var rec LeagueRecord
	if err := c.Decode(r, &rec); err != nil {
		return nil, err
	}
	return FromRecord(rec)
}

// decodeStored reads the snapshot stored under key. A snapshot whose name maps
// to another key is rejected, otherwise saving it would fork a second record.
func decodeStored(c Codec, r io.Reader, key string) (*models.League, error) {
	league, err := DecodeLeague(c, r)
	if err != nil {
		return nil, fmt.Errorf("league %s: %w", key, err)
	}
	if got := RecordKey(league.Name); got != key {
		return nil, fmt.Errorf("league %s: %w", key, malformed("name", "%q belongs under key %s", league.Name, got))
	}
	return league, nil
}
