package errors

import "errors"

// ErrStaleRevision 落库版本冲突：数据库中的版本高于当前快照，说明有其他实例写入过
var ErrStaleRevision = errors.New("持久化版本高于当前快照，拒绝覆盖")
