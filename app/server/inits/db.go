package inits

import (
	"fmt"

	"github.com/alexedwards/argon2id"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"

	"pharmacy-core/app/server/models"
)

func DB(conn string) (db *gorm.DB, err error) {
	// 打开连接，开启错误翻译以便把唯一索引冲突识别为 gorm.ErrDuplicatedKey
	if db, err = gorm.Open(postgres.Open(conn), &gorm.Config{TranslateError: true}); err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	// 迁移
	if err = mig(db); err != nil {
		return nil, fmt.Errorf("failed to migrate database: %w", err)
	}

	// 初始化启动数据
	if err = initData(db); err != nil {
		return nil, fmt.Errorf("failed to init data into database: %w", err)
	}

	// 返回
	return db, nil
}

func mig(db *gorm.DB) error {
	return db.AutoMigrate(
		&models.User{},
		&models.Drug{},
		&models.Prescription{},
		&models.RefreshToken{},
		&models.PasswordResetToken{},
	)
}

func initData(db *gorm.DB) (err error) {
	// 查询现有记录数量
	var counter int64

	// 初始化用户
	if err = db.Model(&models.User{}).Count(&counter).Error; err != nil {
		return fmt.Errorf("failed to get user count: %w", err)
	} else if counter == 0 { // 没有任何用户，添加初始管理员
		// 创建密码
		var password string
		if password, err = argon2id.CreateHash("password", argon2id.DefaultParams); err != nil {
			return fmt.Errorf("failed to generate password: %w", err)
		}

		// 插入记录
		if err = db.Create(&models.User{
			Email:    "admin@pharmacy.local",
			Username: "admin",
			Name:     "Pharmacy Admin",
			Role:     models.RoleAdmin,
			Password: password,
		}).Error; err != nil {
			return fmt.Errorf("failed to create admin user: %w", err)
		}
	}

	// 初始化药品目录
	if err = db.Model(&models.Drug{}).Count(&counter).Error; err != nil {
		return fmt.Errorf("failed to get drug count: %w", err)
	} else if counter == 0 { // 没有任何药品，导入示例目录
		// 插入记录
		if err = db.Create([]*models.Drug{
			{
				Name:         "Aspirin",
				Type:         "Tablet",
				Manufacturer: "Bayer",
				Dosage:       "500mg",
				Description:  "Pain relief and anti-inflammatory",
			},
			{
				Name:         "Paracetamol",
				Type:         "Tablet",
				Manufacturer: "Tylenol",
				Dosage:       "500mg",
				Description:  "Fever reducer and pain reliever",
			},
			{
				Name:                 "Amoxicillin",
				Type:                 "Capsule",
				Manufacturer:         "GSK",
				Dosage:               "250mg",
				Description:          "Broad-spectrum antibiotic",
				PrescriptionRequired: true,
			},
			{
				Name:         "Ibuprofen",
				Type:         "Tablet",
				Manufacturer: "Advil",
				Dosage:       "200mg",
				Description:  "Ibuprofen for pain and inflammation",
			},
			{
				Name:         "Cetirizine",
				Type:         "Tablet",
				Manufacturer: "Zyrtec",
				Dosage:       "10mg",
				Description:  "Non-drowsy antihistamine",
			},
			{
				Name:                 "Metformin",
				Type:                 "Tablet",
				Manufacturer:         "Merck",
				Dosage:               "500mg",
				Description:          "Type 2 diabetes management",
				PrescriptionRequired: true,
			},
		}).Error; err != nil {
			return fmt.Errorf("failed to create initial drugs: %w", err)
		}
	}

	// 已有数据或全部导入成功
	return nil
}
