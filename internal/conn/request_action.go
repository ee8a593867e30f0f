package conn

import (
	"fmt"
	"net/http"

	"github.com/tobsdb/tdbrel/internal/auth"
	"github.com/tobsdb/tdbrel/internal/query"
)

type RequestAction string

const (
	// table actions
	RequestActionCreateTable  RequestAction = "createTable"
	RequestActionApplySchema  RequestAction = "applySchema"
	RequestActionTables       RequestAction = "tables"
	RequestActionColumns      RequestAction = "columns"
	RequestActionKeys         RequestAction = "keys"
	RequestActionAccessCount  RequestAction = "accessCount"
	RequestActionMostAccessed RequestAction = "mostAccessed"

	// rows actions
	RequestActionInsert  RequestAction = "insert"
	RequestActionDelete  RequestAction = "delete"
	RequestActionSearch  RequestAction = "search"
	RequestActionRecords RequestAction = "records"
	RequestActionMin     RequestAction = "min"
	RequestActionMax     RequestAction = "max"

	// index actions
	RequestActionCreateIndex RequestAction = "createIndex"
	RequestActionIndexes     RequestAction = "indexes"

	// join actions
	RequestActionDefineJoin   RequestAction = "defineJoin"
	RequestActionUndefineJoin RequestAction = "undefineJoin"
	RequestActionJoinExists   RequestAction = "joinExists"
	RequestActionJoinField    RequestAction = "joinField"
	RequestActionJoinView     RequestAction = "joinView"
)

func (action RequestAction) IsReadOnly() bool {
	switch action {
	case RequestActionCreateTable, RequestActionApplySchema, RequestActionInsert,
		RequestActionDelete, RequestActionCreateIndex, RequestActionDefineJoin,
		RequestActionUndefineJoin:
		return false
	}
	return true
}

// ActionHandler runs a single request for user against db.
func ActionHandler(db *query.DB, user *auth.TdbUser, action RequestAction, raw []byte) Response {
	role := auth.TdbUserRoleReadWrite
	if action.IsReadOnly() {
		role = auth.TdbUserRoleReadOnly
	}
	if !user.HasClearance(role) {
		return NewErrorResponse(http.StatusForbidden, auth.ErrInsufficientPermissions.Error())
	}

	switch action {
	case RequestActionCreateTable:
		return CreateTableReqHandler(db, raw)
	case RequestActionApplySchema:
		return ApplySchemaReqHandler(db, raw)
	case RequestActionTables:
		return TablesReqHandler(db)
	case RequestActionColumns:
		return ColumnsReqHandler(db, raw)
	case RequestActionKeys:
		return KeysReqHandler(db, raw)
	case RequestActionAccessCount:
		return AccessCountReqHandler(db, raw)
	case RequestActionMostAccessed:
		return MostAccessedReqHandler(db)
	case RequestActionInsert:
		return InsertReqHandler(db, raw)
	case RequestActionDelete:
		return DeleteReqHandler(db, raw)
	case RequestActionSearch:
		return SearchReqHandler(db, raw)
	case RequestActionRecords:
		return RecordsReqHandler(db, raw)
	case RequestActionMin:
		return MinReqHandler(db, raw)
	case RequestActionMax:
		return MaxReqHandler(db, raw)
	case RequestActionCreateIndex:
		return CreateIndexReqHandler(db, raw)
	case RequestActionIndexes:
		return IndexesReqHandler(db, raw)
	case RequestActionDefineJoin:
		return DefineJoinReqHandler(db, raw)
	case RequestActionUndefineJoin:
		return UndefineJoinReqHandler(db, raw)
	case RequestActionJoinExists:
		return JoinExistsReqHandler(db, raw)
	case RequestActionJoinField:
		return JoinFieldReqHandler(db, raw)
	case RequestActionJoinView:
		return JoinViewReqHandler(db, raw)
	default:
		return NewErrorResponse(http.StatusBadRequest, fmt.Sprintf("unknown action: %s", action))
	}
}
