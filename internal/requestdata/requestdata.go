package requestdata

import (
	"context"

	"github.com/google/uuid"
)

var requestDataKey = struct{}{}

func WithRequestData(ctx context.Context, rd *RequestData) context.Context {
	return context.WithValue(ctx, requestDataKey, rd)
}

func GetRequestData(ctx context.Context) *RequestData {
	val := ctx.Value(requestDataKey)
	if rd, ok := val.(*RequestData); ok {
		return rd
	}
	return nil
}

type RequestData struct {
	TokenString string
	UserID      uuid.UUID
	DisplayName string
}

// Actor returns the identity pair the change log records. A context without
// request data yields the nil id and an empty name.
func Actor(ctx context.Context) (uuid.UUID, string) {
	rd := GetRequestData(ctx)
	if rd == nil {
		return uuid.Nil, ""
	}
	return rd.UserID, rd.DisplayName
}
