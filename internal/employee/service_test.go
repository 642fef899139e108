package employee_test

import (
	"fmt"
	"log/slog"
	"os"
	"testing"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/VladimirTheNoob/Budget-tracker/internal/employee"
	"github.com/VladimirTheNoob/Budget-tracker/internal/rbac"
)

func TestEmployee(t *testing.T) {
	RegisterFailHandler(Fail)
	RunSpecs(t, "Employee Suite")
}

type mockEmployeeRepository struct {
	usersByEmail map[string]*employee.User
	departments  map[string]*employee.Department
	links        map[string]string // user id -> department id
	nextDeptID   int
}

func newMockEmployeeRepository() *mockEmployeeRepository {
	return &mockEmployeeRepository{
		usersByEmail: make(map[string]*employee.User),
		departments:  make(map[string]*employee.Department),
		links:        make(map[string]string),
	}
}

func (m *mockEmployeeRepository) GetByEmail(email string) (*employee.User, error) {
	return m.usersByEmail[email], nil
}

func (m *mockEmployeeRepository) GetByID(id string) (*employee.User, error) {
	for _, u := range m.usersByEmail {
		if u.ID == id {
			return u, nil
		}
	}
	return nil, nil
}

func (m *mockEmployeeRepository) List() ([]*employee.Record, error) {
	records := make([]*employee.Record, 0, len(m.usersByEmail))
	for _, u := range m.usersByEmail {
		dept := ""
		if deptID, ok := m.links[u.ID]; ok {
			for _, d := range m.departments {
				if d.ID == deptID {
					dept = d.Name
				}
			}
		}
		records = append(records, &employee.Record{
			ID: u.ID, Name: u.Name, Email: u.Email, Role: u.Role, Department: dept,
		})
	}
	return records, nil
}

func (m *mockEmployeeRepository) CreateUser(u *employee.User) error {
	m.usersByEmail[u.Email] = u
	return nil
}

func (m *mockEmployeeRepository) UpdateUser(u *employee.User) error {
	m.usersByEmail[u.Email] = u
	return nil
}

func (m *mockEmployeeRepository) UpsertDepartment(name string) (*employee.Department, error) {
	if d, ok := m.departments[name]; ok {
		return d, nil
	}
	m.nextDeptID++
	d := &employee.Department{ID: fmt.Sprintf("dept-%d", m.nextDeptID), Name: name}
	m.departments[name] = d
	return d, nil
}

func (m *mockEmployeeRepository) UpsertLink(userID, departmentID string) error {
	m.links[userID] = departmentID
	return nil
}

func (m *mockEmployeeRepository) Transaction(fn func(employee.Repository) error) error {
	return fn(m)
}

var _ = Describe("Employee Service", func() {
	var (
		repo    *mockEmployeeRepository
		service *employee.Service
	)

	BeforeEach(func() {
		repo = newMockEmployeeRepository()
		lg := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelError}))
		service = employee.NewService(repo, nil, lg)
	})

	Describe("BulkUpsert", func() {
		It("creates users and department links for fresh triples", func() {
			result, err := service.BulkUpsert(employee.BulkUpsertDTO{
				Assignments: []employee.TripleDTO{
					{Employee: "Alice", Department: "Sales", Email: "alice@mail.com"},
					{Employee: "Bob", Department: "Sales", Email: "bob@mail.com"},
				},
			})
			Expect(err).NotTo(HaveOccurred())
			Expect(result.Created).To(HaveLen(2))
			Expect(result.Updated).To(BeEmpty())
			Expect(repo.departments).To(HaveLen(1))

			user := repo.usersByEmail["alice@mail.com"]
			Expect(user).NotTo(BeNil())
			Expect(user.Role).To(Equal(string(rbac.RoleEmployee)))
		})

		It("parses name;department;email lines", func() {
			result, err := service.BulkUpsert(employee.BulkUpsertDTO{
				Lines: "Alice;Sales;alice@mail.com\nBob;Support;bob@mail.com\n",
			})
			Expect(err).NotTo(HaveOccurred())
			Expect(result.Created).To(HaveLen(2))
			Expect(repo.departments).To(HaveLen(2))
		})

		It("only moves the department link for an existing email", func() {
			_, err := service.BulkUpsert(employee.BulkUpsertDTO{
				Assignments: []employee.TripleDTO{{Employee: "Alice", Department: "Sales", Email: "alice@mail.com"}},
			})
			Expect(err).NotTo(HaveOccurred())

			result, err := service.BulkUpsert(employee.BulkUpsertDTO{
				Assignments: []employee.TripleDTO{{Employee: "A. Liddell", Department: "Support", Email: "ALICE@mail.com"}},
			})
			Expect(err).NotTo(HaveOccurred())
			Expect(result.Created).To(BeEmpty())
			Expect(result.Updated).To(HaveLen(1))
			Expect(result.Updated[0].Department).To(Equal("Support"))

			// The stored name is untouched; only the link moved.
			user := repo.usersByEmail["alice@mail.com"]
			Expect(user.Name).To(Equal("Alice"))
			Expect(repo.links[user.ID]).To(Equal(repo.departments["Support"].ID))
		})

		It("is idempotent when the same batch is submitted twice", func() {
			dto := employee.BulkUpsertDTO{
				Assignments: []employee.TripleDTO{
					{Employee: "Alice", Department: "Sales", Email: "alice@mail.com"},
				},
			}

			first, err := service.BulkUpsert(dto)
			Expect(err).NotTo(HaveOccurred())
			Expect(first.Created).To(HaveLen(1))

			second, err := service.BulkUpsert(dto)
			Expect(err).NotTo(HaveOccurred())
			Expect(second.Created).To(BeEmpty())
			Expect(second.Updated).To(HaveLen(1))

			Expect(repo.usersByEmail).To(HaveLen(1))
			Expect(repo.departments).To(HaveLen(1))
		})

		It("drops malformed triples and reports them without failing the batch", func() {
			result, err := service.BulkUpsert(employee.BulkUpsertDTO{
				Assignments: []employee.TripleDTO{
					{Employee: "Alice", Department: "Sales", Email: "alice@mail.com"},
					{Employee: "", Department: "Sales", Email: "ghost@mail.com"},
					{Employee: "Carol", Department: "", Email: "carol@mail.com"},
				},
			})
			Expect(err).NotTo(HaveOccurred())
			Expect(result.Created).To(HaveLen(1))
			Expect(result.Invalid).To(HaveLen(2))
		})

		It("folds repeated emails inside one batch, last occurrence wins", func() {
			result, err := service.BulkUpsert(employee.BulkUpsertDTO{
				Assignments: []employee.TripleDTO{
					{Employee: "Alice", Department: "Sales", Email: "alice@mail.com"},
					{Employee: "Alice", Department: "Support", Email: "alice@mail.com"},
				},
			})
			Expect(err).NotTo(HaveOccurred())
			Expect(result.Created).To(HaveLen(1))
			Expect(result.Created[0].Department).To(Equal("Support"))
			Expect(repo.usersByEmail).To(HaveLen(1))
		})

		It("rejects an empty submission", func() {
			_, err := service.BulkUpsert(employee.BulkUpsertDTO{})
			Expect(err).To(HaveOccurred())
		})
	})
})
