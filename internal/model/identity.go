package model

// Identity 当前请求的已认证身份，nil 表示匿名访问
type Identity struct {
	UserID   uint
	Username string
}

// OwnerOf 返回写入短链接 owner 字段的值，匿名时为 nil
func OwnerOf(id *Identity) *string {
	if id == nil {
		return nil
	}
	name := id.Username
	return &name
}
