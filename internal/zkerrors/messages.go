// Package zkerrors maps the Err field carried in every ZooKeeper response
// header to the human-readable message the server meant by it. The decoder
// itself never interprets these — only Sink implementations that want a
// readable log line or metric label do.
package zkerrors

import "github.com/jeffbean/go-zookeeper/zk"

const (
	// ErrOk is the error code meaning "no error".
	ErrOk zk.ErrCode = 0

	// System and server-side errors.
	errSystemError          zk.ErrCode = -1
	errRuntimeInconsistency zk.ErrCode = -2
	errDataInconsistency    zk.ErrCode = -3
	errConnectionLoss       zk.ErrCode = -4
	errMarshallingError     zk.ErrCode = -5
	errUnimplemented        zk.ErrCode = -6
	errOperationTimeout     zk.ErrCode = -7
	errBadArguments         zk.ErrCode = -8
	errInvalidState         zk.ErrCode = -9

	// API errors.
	errAPIError                zk.ErrCode = -100
	errNoNode                  zk.ErrCode = -101 // *
	errNoAuth                  zk.ErrCode = -102
	errBadVersion              zk.ErrCode = -103 // *
	errNoChildrenForEphemerals zk.ErrCode = -108
	errNodeExists              zk.ErrCode = -110 // *
	errNotEmpty                zk.ErrCode = -111
	errSessionExpired          zk.ErrCode = -112
	errInvalidCallback         zk.ErrCode = -113
	errInvalidACL              zk.ErrCode = -114
	errAuthFailed              zk.ErrCode = -115
	errClosing                 zk.ErrCode = -116
	errNothing                 zk.ErrCode = -117
	errSessionMoved            zk.ErrCode = -118
)

var errCodeToString = map[zk.ErrCode]string{
	ErrOk:                      "",
	errSystemError:             "system error",
	errRuntimeInconsistency:    "runtime inconsistency",
	errDataInconsistency:       "data inconsistency",
	errConnectionLoss:          "connection loss",
	errMarshallingError:        "marshalling error",
	errUnimplemented:           "unimplemented",
	errOperationTimeout:        "operation timeout",
	errBadArguments:            "bad arguments",
	errInvalidState:            "invalid state",
	errAPIError:                "api error",
	errNoNode:                  "node does not exist",
	errNoAuth:                  "not authenticated",
	errBadVersion:              "version conflict",
	errNoChildrenForEphemerals: "ephemeral nodes may not have children",
	errNodeExists:              "node already exists",
	errNotEmpty:                "node has children",
	errSessionExpired:          "session has been expired by the server",
	errInvalidCallback:         "invalid callback specified",
	errInvalidACL:              "invalid ACL specified",
	errAuthFailed:              "client authentication failed",
	errClosing:                 "zookeeper is closing",
	errNothing:                 "no server responses to process",
	errSessionMoved:            "session moved to another server, so operation is ignored",
}

// ToMessage converts a ZooKeeper error code to a human-readable message,
// falling back to a generic message for codes this table doesn't know
// about (new server versions sometimes add new codes).
func ToMessage(ec zk.ErrCode) string {
	if msg, ok := errCodeToString[ec]; ok {
		return msg
	}
	return "unknown error"
}
