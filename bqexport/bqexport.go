// Package bqexport streams long-format participant availability into a
// BigQuery table.
package bqexport

import (
	"context"
	"errors"
	"fmt"
	"log"
	"net/http"

	"cloud.google.com/go/bigquery"
	"github.com/carbocation/ldmapper/participant"
	"github.com/carbocation/pfx"
	"google.golang.org/api/googleapi"
)

// Rows are inserted in chunks of this many.
var BatchSize = 5000

// Row is one participant/target record as stored in BigQuery.
type Row struct {
	ParticipantID   string `bigquery:"participant_id"`
	RSID            string `bigquery:"rsid"`
	AlternativeRSID string `bigquery:"alternative_rsid"`
	Present         bool   `bigquery:"present"`
}

type WrappedBigQuery struct {
	Context  context.Context
	Client   *bigquery.Client
	Project  string
	Database string
	Table    string
}

func Rows(obs []*participant.Observation) []*Row {
	out := make([]*Row, 0, len(obs))
	for _, o := range obs {
		row := &Row{
			ParticipantID: o.ParticipantID,
			RSID:          o.RSID,
			Present:       o.Status == participant.Present,
		}
		if row.Present {
			row.AlternativeRSID = o.AlternativeRSID
		}
		out = append(out, row)
	}

	return out
}

func Schema() (bigquery.Schema, error) {
	return bigquery.InferSchema(Row{})
}

// Upload creates the destination table if it does not yet exist and streams
// the observations into it.
func Upload(ctx context.Context, project, dataset, table string, obs []*participant.Observation) error {
	client, err := bigquery.NewClient(ctx, project)
	if err != nil {
		return fmt.Errorf("connecting to BigQuery: %v", err)
	}
	defer client.Close()

	wbq := &WrappedBigQuery{
		Context:  ctx,
		Client:   client,
		Project:  project,
		Database: dataset,
		Table:    table,
	}

	if err := ensureTable(wbq); err != nil {
		return err
	}

	return insert(wbq, Rows(obs))
}

func ensureTable(wbq *WrappedBigQuery) error {
	schema, err := Schema()
	if err != nil {
		return pfx.Err(err)
	}

	tbl := wbq.Client.Dataset(wbq.Database).Table(wbq.Table)
	err = tbl.Create(wbq.Context, &bigquery.TableMetadata{Schema: schema})

	var gerr *googleapi.Error
	if errors.As(err, &gerr) && gerr.Code == http.StatusConflict {
		// Not an error; the table already exists
		return nil
	} else if err != nil {
		return pfx.Err(fmt.Errorf("creating %s.%s: %w", wbq.Database, wbq.Table, err))
	}

	log.Printf("Created BigQuery table %s:%s.%s\n", wbq.Project, wbq.Database, wbq.Table)

	return nil
}

func insert(wbq *WrappedBigQuery, rows []*Row) error {
	inserter := wbq.Client.Dataset(wbq.Database).Table(wbq.Table).Inserter()

	for start := 0; start < len(rows); start += BatchSize {
		end := start + BatchSize
		if end > len(rows) {
			end = len(rows)
		}

		if err := inserter.Put(wbq.Context, rows[start:end]); err != nil {
			return pfx.Err(fmt.Errorf("inserting rows %d-%d: %w", start, end, err))
		}

		log.Printf("Inserted %d/%d rows into %s.%s\n", end, len(rows), wbq.Database, wbq.Table)
	}

	return nil
}
