// Copyright (c) 2018 The VeChainThor developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package logs

import (
	"fmt"
	"math"
	"net/http"

	"github.com/gorilla/mux"
	"github.com/pkg/errors"

	"github.com/GoldFingerRWA/goldfinger/api/utils"
	"github.com/GoldFingerRWA/goldfinger/logdb"
)

type Logs struct {
	db    *logdb.LogDB
	limit uint64
}

func New(db *logdb.LogDB, logsLimit uint64) *Logs {
	return &Logs{
		db,
		logsLimit,
	}
}

func (l *Logs) handleFilterEvents(w http.ResponseWriter, req *http.Request) error {
	var filter EventFilter
	if err := utils.ParseJSON(req.Body, &filter); err != nil {
		return utils.BadRequest(errors.WithMessage(err, "body"))
	}
	if err := filter.Range.Validate(); err != nil {
		return utils.BadRequest(err)
	}
	if filter.Order != "" && filter.Order != logdb.ASC && filter.Order != logdb.DESC {
		return utils.BadRequest(fmt.Errorf("order must be either 'asc' or 'desc', got '%s'", filter.Order))
	}
	if filter.Options == nil {
		filter.Options = &Options{}
	}
	if filter.Options.Offset > math.MaxInt64 {
		return utils.BadRequest(fmt.Errorf("options.offset exceeds the maximum allowed value of %d", int64(math.MaxInt64)))
	}

	limit := l.limit + 1 // one more to detect an oversized result
	if filter.Options.Limit != nil {
		if *filter.Options.Limit > l.limit {
			return utils.Forbidden(fmt.Errorf("options.limit exceeds the maximum allowed value of %d", l.limit))
		}
		limit = *filter.Options.Limit
	}

	events, err := l.db.FilterEvents(req.Context(), filter.convert(limit))
	if err != nil {
		return err
	}
	if uint64(len(events)) > l.limit {
		return utils.Forbidden(fmt.Errorf("the number of filtered logs exceeds the maximum allowed value of %d, please use pagination", l.limit))
	}

	fes := make([]*FilteredEvent, len(events))
	for i, ev := range events {
		fes[i] = ConvertEvent(ev)
	}
	return utils.WriteJSON(w, fes)
}

func (l *Logs) Mount(root *mux.Router, pathPrefix string) {
	sub := root.PathPrefix(pathPrefix).Subrouter()

	sub.Path("/events").
		Methods(http.MethodPost).
		Name("POST /logs/events").
		HandlerFunc(utils.WrapHandlerFunc(l.handleFilterEvents))
}
