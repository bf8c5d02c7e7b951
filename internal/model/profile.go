package model

import "time"

// Profile 个人资料视图：显示名来自身份服务，其余字段来自文档库
type Profile struct {
	UserID      string `json:"userId"`
	DisplayName string `json:"displayName"`
	PhotoURL    string `json:"photoURL,omitempty"`
	Bio         string `json:"bio"`
	Location    string `json:"location"`
	Occupation  string `json:"occupation"`
	Website     string `json:"website"`
	JoinDate    string `json:"joinDate"`
}

// ProfileDocument users/<uid> 文档，每个用户最多一条
type ProfileDocument struct {
	UserID     string `gorm:"primaryKey;type:varchar(128)"`
	Bio        string `gorm:"type:text"`
	Location   string `gorm:"type:varchar(255)"`
	Occupation string `gorm:"type:varchar(255)"`
	Website    string `gorm:"type:varchar(512)"`
	JoinDate   string `gorm:"type:varchar(64)"`
	CreatedAt  time.Time
	UpdatedAt  time.Time
}

func (ProfileDocument) TableName() string { return "profiles" }
