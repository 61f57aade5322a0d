package constants

import "time"

const (
	CacheKeyDrugPublic = "pharmacy:drug:public:%d"
	CacheKeyAdminStats = "pharmacy:admin:stats"
)

const (
	CacheExpireDrugPublic = 1 * time.Hour
	CacheExpireAdminStats = 1 * time.Minute
)
