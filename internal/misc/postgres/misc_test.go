package postgres_test

import (
	"testing"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormLogger "gorm.io/gorm/logger"

	"github.com/staffdir/employee-directory/internal/core/datamodel/directory"
	"github.com/staffdir/employee-directory/internal/misc"
	miscPostgres "github.com/staffdir/employee-directory/internal/misc/postgres"
)

func TestMiscPostgres(t *testing.T) {
	RegisterFailHandler(Fail)
	RunSpecs(t, "Misc Postgres Suite")
}

var _ = Describe("Reference Repository", func() {
	var repo misc.Repository

	BeforeEach(func() {
		db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
			Logger: gormLogger.Default.LogMode(gormLogger.Silent),
		})
		Expect(err).NotTo(HaveOccurred())

		Expect(db.AutoMigrate(
			&directory.Department{},
			&directory.Location{},
			&directory.Permission{},
		)).To(Succeed())

		for _, name := range []string{"Sales", "Engineering"} {
			Expect(db.Create(&directory.Department{Name: name}).Error).To(Succeed())
		}
		for _, name := range []string{"Remote", "Berlin"} {
			Expect(db.Create(&directory.Location{Name: name}).Error).To(Succeed())
		}
		Expect(db.Create(&directory.Permission{Name: "READ_EMPLOYEE", Description: "Can read employee data"}).Error).To(Succeed())
		Expect(db.Create(&directory.Permission{Name: "CREATE_EMPLOYEE", Description: "Can create employees"}).Error).To(Succeed())

		repo = miscPostgres.NewReferenceRepository(db)
	})

	It("lists departments ordered by name", func() {
		departments, err := repo.ListDepartments()

		Expect(err).NotTo(HaveOccurred())
		Expect(departments).To(HaveLen(2))
		Expect(departments[0].Name).To(Equal("Engineering"))
		Expect(departments[1].Name).To(Equal("Sales"))
	})

	It("lists locations ordered by name", func() {
		locations, err := repo.ListLocations()

		Expect(err).NotTo(HaveOccurred())
		Expect(locations[0].Name).To(Equal("Berlin"))
		Expect(locations[1].Name).To(Equal("Remote"))
	})

	It("lists permissions with descriptions", func() {
		permissions, err := repo.ListPermissions()

		Expect(err).NotTo(HaveOccurred())
		Expect(permissions).To(HaveLen(2))
		Expect(permissions[0].Name).To(Equal("CREATE_EMPLOYEE"))
		Expect(permissions[0].Description).To(Equal("Can create employees"))
	})
})
