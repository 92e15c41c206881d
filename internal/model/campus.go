package model

// Campus 校区表，对应 campuses
type Campus struct {
	CampusID int64  `gorm:"primaryKey;autoIncrement"     json:"campus_id"`
	Name     string `gorm:"type:varchar(100);not null"   json:"name"`
	Address  string `gorm:"type:varchar(200)"            json:"address,omitempty"`
	BaseModel
}

// TableName 指定表名
func (Campus) TableName() string { return "campuses" }
