package stateful

import (
	"log/slog"
	"maps"
	"net/url"
	"sync"
	"time"

	"github.com/getmockd/restmock/pkg/config"
	"github.com/getmockd/restmock/pkg/logging"
	"github.com/getmockd/restmock/pkg/validation"
	"github.com/getmockd/restmock/pkg/value"
)

// Resource serves the rows of one resource file.
//
// The rows slice of the file is the only copy of the data: mutations are
// applied to it in place. Reads take a shared lock and mutations an exclusive
// one, so a request never sees a half applied mutation. Rows handed out are
// shallow copies.
type Resource struct {
	mu       sync.RWMutex
	file     *config.File
	log      *slog.Logger
	observer Observer
}

// NewResource creates a resource over file. A nil log discards output.
func NewResource(file *config.File, log *slog.Logger) *Resource {
	return &Resource{
		file:     file,
		log:      logging.OrNop(log),
		observer: NoopObserver{},
	}
}

// SetLogger sets the logger.
func (r *Resource) SetLogger(log *slog.Logger) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.log = logging.OrNop(log)
}

// SetObserver sets the observer notified of operations. nil disables it.
func (r *Resource) SetObserver(o Observer) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if o == nil {
		o = NoopObserver{}
	}
	r.observer = o
}

// Name returns the path of the backing file.
func (r *Resource) Name() string {
	return r.file.Path
}

// File returns the backing configuration.
func (r *Resource) File() *config.File {
	return r.file
}

// Len returns the number of rows.
func (r *Resource) Len() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.file.Rows)
}

// Rows returns a copy of all rows in stored order.
func (r *Resource) Rows() []Row {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return cloneRows(r.file.Rows)
}

// NewQuery parses a list query against the resource configuration. The
// ordering parameter replaces the configured default ordering when present.
func (r *Resource) NewQuery(query url.Values) *Query {
	ordering := Param(query, ParamOrdering)
	if value.IsBlank(ordering) {
		ordering = r.file.Ordering
	}
	return &Query{
		Filters:        BuildFilters(query, r.file.FilterFields),
		Search:         Param(query, ParamSearch),
		SearchFields:   r.file.SearchFields,
		Ordering:       ordering,
		OrderingFields: r.file.OrderingFields,
	}
}

// Query returns the rows matching query, ordered.
func (r *Resource) Query(query url.Values) []Row {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return cloneRows(r.NewQuery(query).Run(r.file.Rows, r.log))
}

// List returns one page of the rows matching query.
func (r *Resource) List(query url.Values) *ListResponse {
	start := time.Now()
	r.mu.RLock()
	defer r.mu.RUnlock()

	page, size := PageParams(query, r.file.PageSize)
	resp := Paginate(r.NewQuery(query).Run(r.file.Rows, r.log), page, size)
	resp.Results = cloneRows(resp.Results)
	r.observer.OnOperation(r.Name(), OpList, len(r.file.Rows), time.Since(start))
	return resp
}

// FindByPrimaryKey returns the first row matching query whose primary key
// loosely equals pk.
func (r *Resource) FindByPrimaryKey(pk string, query url.Values) (Row, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	row, err := r.find(pk, query)
	if err != nil {
		return nil, err
	}
	return maps.Clone(row), nil
}

// Get is FindByPrimaryKey reported to the observer.
func (r *Resource) Get(pk string, query url.Values) (Row, error) {
	start := time.Now()
	row, err := r.FindByPrimaryKey(pk, query)
	r.notify(OpGet, start, err)
	return row, err
}

// Create validates body against all rules and appends it.
//
// A missing primary key is set to one more than the largest numeric key. A
// key that is already taken gives a *ConflictError.
func (r *Resource) Create(body any) (Row, error) {
	start := time.Now()
	r.mu.Lock()
	defer r.mu.Unlock()

	row, err := r.create(body)
	r.notifyLocked(OpCreate, start, err)
	return row, err
}

func (r *Resource) create(body any) (Row, error) {
	row, err := validation.Validate(body, r.file.Rules, false)
	if err != nil {
		return nil, &BadRequestError{Err: err}
	}

	pkField := r.file.PKField
	if value.IsNull(row[pkField]) {
		row[pkField] = NextPK(r.file.Rows, pkField)
	} else if r.indexOf(row[pkField]) >= 0 {
		return nil, &ConflictError{Resource: r.Name(), PKField: pkField, PK: row[pkField]}
	}

	r.file.Rows = append(r.file.Rows, row)
	r.log.Debug("row created", "resource", r.Name(), pkField, row[pkField])
	return maps.Clone(row), nil
}

// Replace validates body against all rules and replaces every field of the
// row except its primary key.
func (r *Resource) Replace(pk string, query url.Values, body any) (Row, error) {
	return r.update(OpReplace, pk, query, body)
}

// Patch validates the fields present in body and assigns them over the row.
// The primary key is never changed.
func (r *Resource) Patch(pk string, query url.Values, body any) (Row, error) {
	return r.update(OpPatch, pk, query, body)
}

func (r *Resource) update(op Operation, pk string, query url.Values, body any) (Row, error) {
	start := time.Now()
	r.mu.Lock()
	defer r.mu.Unlock()

	row, err := r.find(pk, query)
	if err == nil {
		row, err = r.assign(row, body, op == OpPatch)
	}
	r.notifyLocked(op, start, err)
	return row, err
}

func (r *Resource) assign(row Row, body any, partial bool) (Row, error) {
	if body == nil {
		body = map[string]any{}
	}
	data, err := validation.Validate(body, r.file.Rules, partial)
	if err != nil {
		return nil, &BadRequestError{Err: err}
	}

	pkField := r.file.PKField
	if !partial {
		for k := range row {
			if k != pkField {
				delete(row, k)
			}
		}
	}
	for k, v := range data {
		if k != pkField {
			row[k] = v
		}
	}
	return maps.Clone(row), nil
}

// Delete removes the row and returns its last value.
func (r *Resource) Delete(pk string, query url.Values) (Row, error) {
	start := time.Now()
	r.mu.Lock()
	defer r.mu.Unlock()

	row, err := r.find(pk, query)
	if err == nil {
		if i := r.indexOf(row[r.file.PKField]); i >= 0 {
			r.file.Rows = append(r.file.Rows[:i], r.file.Rows[i+1:]...)
		}
		r.log.Debug("row deleted", "resource", r.Name(), r.file.PKField, row[r.file.PKField])
		row = maps.Clone(row)
	}
	r.notifyLocked(OpDelete, start, err)
	return row, err
}

// find runs query and returns the stored row whose primary key matches pk.
// The caller must hold the lock.
func (r *Resource) find(pk string, query url.Values) (Row, error) {
	if pk == "" {
		return nil, &NotFoundError{Resource: r.Name()}
	}
	for _, row := range r.NewQuery(query).Run(r.file.Rows, r.log) {
		if value.LooseEqual(row[r.file.PKField], pk) {
			return row, nil
		}
	}
	return nil, &NotFoundError{Resource: r.Name(), PK: pk}
}

// indexOf returns the index of the stored row whose primary key loosely
// equals pk, or -1.
func (r *Resource) indexOf(pk any) int {
	for i, row := range r.file.Rows {
		if pkv, ok := row[r.file.PKField]; ok && value.LooseEqual(pkv, pk) {
			return i
		}
	}
	return -1
}

func (r *Resource) notify(op Operation, start time.Time, err error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	r.notifyLocked(op, start, err)
}

func (r *Resource) notifyLocked(op Operation, start time.Time, err error) {
	if err != nil {
		r.observer.OnError(r.Name(), op, err)
		return
	}
	r.observer.OnOperation(r.Name(), op, len(r.file.Rows), time.Since(start))
}

// NextPK returns one more than the largest numeric primary key in rows, or 1.
// Zero, blank and non-numeric keys are ignored.
func NextPK(rows []Row, pkField string) float64 {
	var last float64
	for _, row := range rows {
		pk := row[pkField]
		if !value.IsNumber(pk) {
			continue
		}
		if f, ok := value.CoerceToNumericLike(pk); ok && f > last {
			last = f
		}
	}
	return last + 1
}

func cloneRows(rows []Row) []Row {
	out := make([]Row, len(rows))
	for i, row := range rows {
		out[i] = maps.Clone(row)
	}
	return out
}
