package conn

import (
	"encoding/json"
	"fmt"
	"net/http"

	"github.com/tobsdb/tdbrel/internal/builder"
	"github.com/tobsdb/tdbrel/internal/query"
	"github.com/tobsdb/tdbrel/internal/types"
)

type Response struct {
	Data    any    `json:"data"`
	Message string `json:"message"`
	Status  int    `json:"status"`
	// don't manually set this. it comes from the client
	ReqId int `json:"__tdb_client_req_id__"`
}

func NewErrorResponse(status int, err string) Response {
	return Response{Message: err, Status: status}
}

func NewResponse(status int, message string, data any) Response {
	return Response{Data: data, Message: message, Status: status}
}

func errorResponse(err error) Response {
	return NewErrorResponse(query.StatusOf(err), err.Error())
}

func decode(raw []byte, req any) *Response {
	if err := json.Unmarshal(raw, req); err != nil {
		res := NewErrorResponse(http.StatusBadRequest, err.Error())
		return &res
	}
	return nil
}

type FieldArg struct {
	Name string          `json:"name"`
	Type types.FieldType `json:"type"`
	Key  bool            `json:"key"`
}

type CreateTableRequest struct {
	Table  string     `json:"table"`
	Fields []FieldArg `json:"fields"`
	Keys   []string   `json:"keys"`
}

func CreateTableReqHandler(db *query.DB, raw []byte) Response {
	var req CreateTableRequest
	if res := decode(raw, &req); res != nil {
		return *res
	}

	fields := make([]*builder.Field, len(req.Fields))
	for i, f := range req.Fields {
		fields[i] = &builder.Field{Name: f.Name, BuiltinType: f.Type, Key: f.Key}
	}
	if err := db.CreateTable(req.Table, fields, req.Keys); err != nil {
		return errorResponse(err)
	}
	return NewResponse(http.StatusCreated, fmt.Sprintf("Created new table %s", req.Table), nil)
}

type ApplySchemaRequest struct {
	Schema string `json:"schema"`
}

func ApplySchemaReqHandler(db *query.DB, raw []byte) Response {
	var req ApplySchemaRequest
	if res := decode(raw, &req); res != nil {
		return *res
	}

	created, err := db.ApplySchema(req.Schema)
	if err != nil {
		return errorResponse(err)
	}
	return NewResponse(http.StatusCreated, fmt.Sprintf("Created %d new tables", len(created)), created)
}

type TableRequest struct {
	Table string `json:"table"`
}

type InsertRequest struct {
	Table string      `json:"table"`
	Data  builder.Row `json:"data"`
}

func InsertReqHandler(db *query.DB, raw []byte) Response {
	var req InsertRequest
	if res := decode(raw, &req); res != nil {
		return *res
	}

	if err := db.Insert(req.Table, req.Data); err != nil {
		return errorResponse(err)
	}
	return NewResponse(http.StatusCreated, fmt.Sprintf("Created new row in table %s", req.Table), req.Data)
}

type DeleteRequest struct {
	Table string       `json:"table"`
	Field string       `json:"field"`
	Value *types.Value `json:"value"`
}

func DeleteReqHandler(db *query.DB, raw []byte) Response {
	var req DeleteRequest
	if res := decode(raw, &req); res != nil {
		return *res
	}

	if req.Value == nil {
		return NewErrorResponse(http.StatusBadRequest, "Missing value to delete by")
	}
	n, err := db.Delete(req.Table, req.Field, *req.Value)
	if err != nil {
		return errorResponse(err)
	}
	return NewResponse(http.StatusOK, fmt.Sprintf("Deleted %d rows in table %s", n, req.Table), n)
}

type SearchRequest struct {
	Table string      `json:"table"`
	Where builder.Row `json:"where"`
}

func SearchReqHandler(db *query.DB, raw []byte) Response {
	var req SearchRequest
	if res := decode(raw, &req); res != nil {
		return *res
	}

	rows, err := db.Search(req.Table, req.Where)
	if err != nil {
		return errorResponse(err)
	}
	return NewResponse(http.StatusOK, fmt.Sprintf("Found %d rows in table %s", len(rows), req.Table), rows)
}

func RecordsReqHandler(db *query.DB, raw []byte) Response {
	var req TableRequest
	if res := decode(raw, &req); res != nil {
		return *res
	}

	rows, err := db.Records(req.Table)
	if err != nil {
		return errorResponse(err)
	}
	return NewResponse(http.StatusOK, fmt.Sprintf("Found %d rows in table %s", len(rows), req.Table), rows)
}

func ColumnsReqHandler(db *query.DB, raw []byte) Response {
	var req TableRequest
	if res := decode(raw, &req); res != nil {
		return *res
	}

	columns, err := db.Columns(req.Table)
	if err != nil {
		return errorResponse(err)
	}
	return NewResponse(http.StatusOK, fmt.Sprintf("Table %s has %d columns", req.Table, len(columns)), columns)
}

func KeysReqHandler(db *query.DB, raw []byte) Response {
	var req TableRequest
	if res := decode(raw, &req); res != nil {
		return *res
	}

	keys, err := db.Keys(req.Table)
	if err != nil {
		return errorResponse(err)
	}
	return NewResponse(http.StatusOK, fmt.Sprintf("Table %s has %d key columns", req.Table, len(keys)), keys)
}

type FieldRequest struct {
	Table string `json:"table"`
	Field string `json:"field"`
}

func MinReqHandler(db *query.DB, raw []byte) Response {
	var req FieldRequest
	if res := decode(raw, &req); res != nil {
		return *res
	}

	v, err := db.Min(req.Table, req.Field)
	if err != nil {
		return errorResponse(err)
	}
	return NewResponse(http.StatusOK, fmt.Sprintf("Minimum of %s in table %s", req.Field, req.Table), v)
}

func MaxReqHandler(db *query.DB, raw []byte) Response {
	var req FieldRequest
	if res := decode(raw, &req); res != nil {
		return *res
	}

	v, err := db.Max(req.Table, req.Field)
	if err != nil {
		return errorResponse(err)
	}
	return NewResponse(http.StatusOK, fmt.Sprintf("Maximum of %s in table %s", req.Field, req.Table), v)
}

func AccessCountReqHandler(db *query.DB, raw []byte) Response {
	var req TableRequest
	if res := decode(raw, &req); res != nil {
		return *res
	}

	n, err := db.AccessCount(req.Table)
	if err != nil {
		return errorResponse(err)
	}
	return NewResponse(http.StatusOK, fmt.Sprintf("Table %s was accessed %d times", req.Table, n), n)
}

func MostAccessedReqHandler(db *query.DB) Response {
	name, err := db.MostAccessedTable()
	if err != nil {
		return errorResponse(err)
	}
	return NewResponse(http.StatusOK, fmt.Sprintf("Table %s is the most accessed", name), name)
}

func TablesReqHandler(db *query.DB) Response {
	names := db.Tables()
	return NewResponse(http.StatusOK, fmt.Sprintf("Found %d tables", len(names)), names)
}

type CreateIndexRequest struct {
	Table string          `json:"table"`
	Field string          `json:"field"`
	Type  types.FieldType `json:"type"`
}

func CreateIndexReqHandler(db *query.DB, raw []byte) Response {
	var req CreateIndexRequest
	if res := decode(raw, &req); res != nil {
		return *res
	}

	if !req.Type.IsValid() {
		return NewErrorResponse(http.StatusBadRequest, fmt.Sprintf("Invalid index type: %s", req.Type))
	}
	if err := db.CreateIndex(req.Table, req.Field, req.Type); err != nil {
		return errorResponse(err)
	}
	return NewResponse(http.StatusCreated,
		fmt.Sprintf("Created %s index on %s in table %s", req.Type, req.Field, req.Table), nil)
}

// IndexesReqHandler reports the indexed column of each type, if any.
func IndexesReqHandler(db *query.DB, raw []byte) Response {
	var req TableRequest
	if res := decode(raw, &req); res != nil {
		return *res
	}

	indexes := map[types.FieldType]string{}
	for _, ft := range types.VALID_BUILTIN_TYPES {
		has, err := db.HasIndex(req.Table, ft)
		if err != nil {
			return errorResponse(err)
		}
		if !has {
			continue
		}
		field, err := db.IndexField(req.Table, ft)
		if err != nil {
			return errorResponse(err)
		}
		indexes[ft] = field
	}
	return NewResponse(http.StatusOK, fmt.Sprintf("Table %s has %d indexes", req.Table, len(indexes)), indexes)
}

type JoinRequest struct {
	Table1 string `json:"table1"`
	Table2 string `json:"table2"`
	Field  string `json:"field"`
}

func DefineJoinReqHandler(db *query.DB, raw []byte) Response {
	var req JoinRequest
	if res := decode(raw, &req); res != nil {
		return *res
	}

	if err := db.DefineJoin(req.Table1, req.Table2, req.Field); err != nil {
		return errorResponse(err)
	}
	return NewResponse(http.StatusCreated,
		fmt.Sprintf("Defined join between %s and %s on %s", req.Table1, req.Table2, req.Field), nil)
}

func UndefineJoinReqHandler(db *query.DB, raw []byte) Response {
	var req JoinRequest
	if res := decode(raw, &req); res != nil {
		return *res
	}

	if err := db.UndefineJoin(req.Table1, req.Table2); err != nil {
		return errorResponse(err)
	}
	return NewResponse(http.StatusOK, fmt.Sprintf("Removed join between %s and %s", req.Table1, req.Table2), nil)
}

func JoinExistsReqHandler(db *query.DB, raw []byte) Response {
	var req JoinRequest
	if res := decode(raw, &req); res != nil {
		return *res
	}

	exists, err := db.JoinExists(req.Table1, req.Table2)
	if err != nil {
		return errorResponse(err)
	}
	message := fmt.Sprintf("No join between %s and %s", req.Table1, req.Table2)
	if exists {
		message = fmt.Sprintf("Found join between %s and %s", req.Table1, req.Table2)
	}
	return NewResponse(http.StatusOK, message, exists)
}

func JoinFieldReqHandler(db *query.DB, raw []byte) Response {
	var req JoinRequest
	if res := decode(raw, &req); res != nil {
		return *res
	}

	field, err := db.JoinField(req.Table1, req.Table2)
	if err != nil {
		return errorResponse(err)
	}
	return NewResponse(http.StatusOK, fmt.Sprintf("Tables %s and %s join on %s", req.Table1, req.Table2, field), field)
}

func JoinViewReqHandler(db *query.DB, raw []byte) Response {
	var req JoinRequest
	if res := decode(raw, &req); res != nil {
		return *res
	}

	rows, err := db.JoinView(req.Table1, req.Table2)
	if err != nil {
		return errorResponse(err)
	}
	return NewResponse(http.StatusOK,
		fmt.Sprintf("Joined %d rows from %s and %s", len(rows), req.Table1, req.Table2), rows)
}
