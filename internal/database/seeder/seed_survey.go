package seeder

import (
	"context"
	"database/sql"
	"embed"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"
	"time"

	"seminar-api/internal/database"
)

//go:embed data/example_surveyresult.tsv
var sampleSurvey embed.FS

const (
	sampleSurveyFile    = "data/example_surveyresult.tsv"
	surveyTimeLayout    = "2006-01-02 15:04:05"
	surveyFieldsPerLine = 7
)

// surveyResponseKey identifies a survey answer: every answered column, so
// two respondents differing only in their scores are both kept.
var surveyResponseKey = []string{
	"responded_at", "os_id", "spring_exp", "rdb_exp", "programming_exp", "major", "grade",
}

var insertSurveyResponseSQL = `INSERT INTO survey_responses (id, os_id, responded_at, spring_exp, rdb_exp, programming_exp, major, grade)
	 VALUES (gen_random_uuid(), $1::uuid, $2, $3, $4, $5, $6, $7)
	 ON CONFLICT (` + strings.Join(surveyResponseKey, ", ") + `) DO NOTHING`

// SurveyRow is one line of the survey export:
// timestamp, os, spring_exp, rdb_exp, programming_exp, major, grade.
type SurveyRow struct {
	Timestamp      time.Time
	OS             string
	SpringExp      int
	RDBExp         int
	ProgrammingExp int
	Major          string
	Grade          string
}

// ParseSurveyTSV reads tab-separated survey rows. Any malformed line fails
// the whole file.
func ParseSurveyTSV(r io.Reader) ([]SurveyRow, error) {
	cr := csv.NewReader(r)
	cr.Comma = '\t'
	cr.FieldsPerRecord = surveyFieldsPerLine
	cr.LazyQuotes = true

	var out []SurveyRow
	for line := 1; ; line++ {
		rec, err := cr.Read()
		if errors.Is(err, io.EOF) {
			return out, nil
		}
		if err != nil {
			return nil, fmt.Errorf("survey line %d: %w", line, err)
		}

		row, err := parseSurveyRecord(rec)
		if err != nil {
			return nil, fmt.Errorf("survey line %d: %w", line, err)
		}
		out = append(out, row)
	}
}

func parseSurveyRecord(rec []string) (SurveyRow, error) {
	ts, err := time.Parse(surveyTimeLayout, strings.TrimSpace(rec[0]))
	if err != nil {
		return SurveyRow{}, fmt.Errorf("timestamp: %w", err)
	}

	ints := make([]int, 3)
	for i, name := range []string{"spring_exp", "rdb_exp", "programming_exp"} {
		n, err := strconv.Atoi(strings.TrimSpace(rec[2+i]))
		if err != nil {
			return SurveyRow{}, fmt.Errorf("%s: %w", name, err)
		}
		ints[i] = n
	}

	osName := strings.TrimSpace(rec[1])
	if osName == "" {
		return SurveyRow{}, fmt.Errorf("empty os")
	}

	return SurveyRow{
		Timestamp:      ts,
		OS:             osName,
		SpringExp:      ints[0],
		RDBExp:         ints[1],
		ProgrammingExp: ints[2],
		Major:          strings.TrimSpace(rec[5]),
		Grade:          strings.TrimSpace(rec[6]),
	}, nil
}

// SurveySeeder loads survey responses from Path, or the embedded sample when
// Path is empty. It must run after OperatingSystemsSeeder.
type SurveySeeder struct {
	Path string
}

func (SurveySeeder) Name() string { return "survey_responses" }

func (s SurveySeeder) Run(ctx context.Context, db database.DB) error {
	if err := EnsureTableColumns(ctx, db, "survey_responses",
		"id", "os_id", "responded_at", "spring_exp", "rdb_exp", "programming_exp", "major", "grade",
	); err != nil {
		return err
	}

	rows, err := s.load()
	if err != nil {
		return err
	}

	tx, err := db.Begin(ctx)
	if err != nil {
		return err
	}
	defer func() {
		_ = tx.Rollback(context.Background())
	}()

	osIDs := map[string]string{}
	for _, row := range rows {
		osID, ok := osIDs[row.OS]
		if !ok {
			err := tx.QueryRow(ctx, `SELECT id::text FROM operating_systems WHERE name = $1`, row.OS).Scan(&osID)
			if err != nil {
				if errors.Is(err, sql.ErrNoRows) {
					return fmt.Errorf("unknown operating system %q", row.OS)
				}
				return err
			}
			osIDs[row.OS] = osID
		}

		if _, err := tx.Exec(
			ctx,
			insertSurveyResponseSQL,
			osID, row.Timestamp, row.SpringExp, row.RDBExp, row.ProgrammingExp, row.Major, row.Grade,
		); err != nil {
			return err
		}
	}

	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("commit: %w", err)
	}
	return nil
}

func (s SurveySeeder) load() ([]SurveyRow, error) {
	var (
		f   io.ReadCloser
		err error
	)
	if s.Path == "" {
		f, err = sampleSurvey.Open(sampleSurveyFile)
	} else {
		f, err = os.Open(s.Path)
	}
	if err != nil {
		return nil, fmt.Errorf("open survey file: %w", err)
	}
	defer f.Close()

	return ParseSurveyTSV(f)
}
