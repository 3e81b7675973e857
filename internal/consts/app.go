package consts

const (
	ApplicationName    = "Photo Share Server"
	ApplicationVersion = "1.0.0"

	// PageSize 列表页每页帖子数
	PageSize = 9

	// PhotoUploadDir media root 下保存帖子图片的子目录
	PhotoUploadDir = "photos"

	CategoryTitleMaxRunes = 20
	PostTitleMaxRunes     = 200
	UsernameMaxRunes      = 150
)

// gin.Context 中保存请求身份的键
const ContextIdentityKey = "identity"

// 会话中保存登录令牌的键
const SessionTokenKey = "token"
