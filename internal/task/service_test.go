package task_test

import (
	"log/slog"
	"os"
	"testing"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/VladimirTheNoob/Budget-tracker/internal"
	"github.com/VladimirTheNoob/Budget-tracker/internal/task"
)

func TestTask(t *testing.T) {
	RegisterFailHandler(Fail)
	RunSpecs(t, "Task Suite")
}

type mockTaskRepository struct {
	tasks       map[string]*task.Task
	createError error
	listError   error
}

func newMockTaskRepository() *mockTaskRepository {
	return &mockTaskRepository{tasks: make(map[string]*task.Task)}
}

func (m *mockTaskRepository) List() ([]*task.Task, error) {
	if m.listError != nil {
		return nil, m.listError
	}
	out := make([]*task.Task, 0, len(m.tasks))
	for _, t := range m.tasks {
		out = append(out, t)
	}
	return out, nil
}

func (m *mockTaskRepository) GetByID(id string) (*task.Task, error) {
	return m.tasks[id], nil
}

func (m *mockTaskRepository) Create(t *task.Task) error {
	if m.createError != nil {
		return m.createError
	}
	m.tasks[t.ID] = t
	return nil
}

func (m *mockTaskRepository) Update(t *task.Task) error {
	m.tasks[t.ID] = t
	return nil
}

func (m *mockTaskRepository) Delete(id string) error {
	delete(m.tasks, id)
	return nil
}

func (m *mockTaskRepository) NameKeys() (map[string]bool, error) {
	keys := make(map[string]bool, len(m.tasks))
	for _, t := range m.tasks {
		keys[t.NameKey] = true
	}
	return keys, nil
}

func (m *mockTaskRepository) BulkCreate(tasks []*task.Task) error {
	if m.createError != nil {
		return m.createError
	}
	for _, t := range tasks {
		m.tasks[t.ID] = t
	}
	return nil
}

func (m *mockTaskRepository) Transaction(fn func(task.Repository) error) error {
	return fn(m)
}

var _ = Describe("Task Service", func() {
	var (
		repo    *mockTaskRepository
		service *task.Service
	)

	BeforeEach(func() {
		repo = newMockTaskRepository()
		lg := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelError}))
		service = task.NewService(repo, nil, lg)
	})

	Describe("BulkImport", func() {
		It("inserts fresh names with pending status", func() {
			result, err := service.BulkImport(task.BulkImportDTO{Names: []string{"Task1", "Task2"}})
			Expect(err).NotTo(HaveOccurred())
			Expect(result.AddedCount).To(Equal(2))
			Expect(result.Duplicates).To(Equal(0))

			tasks, _ := repo.List()
			Expect(tasks).To(HaveLen(2))
			for _, t := range tasks {
				Expect(t.Status).To(Equal(task.StatusPending))
			}
		})

		It("accepts newline-separated input", func() {
			result, err := service.BulkImport(task.BulkImportDTO{Lines: "Alpha\nBeta\n\nGamma\n"})
			Expect(err).NotTo(HaveOccurred())
			Expect(result.AddedCount).To(Equal(3))
		})

		It("rejects a batch containing names that differ only by case", func() {
			_, err := service.BulkImport(task.BulkImportDTO{Names: []string{"Invoice", "invoice"}})
			Expect(err).To(HaveOccurred())

			appErr, ok := internal.IsAppError(err)
			Expect(ok).To(BeTrue())
			Expect(appErr.Code).To(Equal(internal.ErrCodeDuplicateTaskName))

			tasks, _ := repo.List()
			Expect(tasks).To(BeEmpty())
		})

		It("rejects a batch containing a malformed name without writing anything", func() {
			_, err := service.BulkImport(task.BulkImportDTO{Names: []string{"ok-name", "has space"}})
			Expect(err).To(HaveOccurred())

			appErr, ok := internal.IsAppError(err)
			Expect(ok).To(BeTrue())
			Expect(appErr.Code).To(Equal(internal.ErrCodeInvalidTaskName))

			tasks, _ := repo.List()
			Expect(tasks).To(BeEmpty())
		})

		It("skips names already in the store and reports them", func() {
			_, err := service.BulkImport(task.BulkImportDTO{Names: []string{"Existing"}})
			Expect(err).NotTo(HaveOccurred())

			result, err := service.BulkImport(task.BulkImportDTO{Names: []string{"existing", "Fresh"}})
			Expect(err).NotTo(HaveOccurred())
			Expect(result.AddedCount).To(Equal(1))
			Expect(result.Duplicates).To(Equal(1))
			Expect(result.DuplicateNames).To(ConsistOf("existing"))
		})

		It("is idempotent when the same batch is submitted twice", func() {
			first, err := service.BulkImport(task.BulkImportDTO{Names: []string{"A1", "B2"}})
			Expect(err).NotTo(HaveOccurred())
			Expect(first.AddedCount).To(Equal(2))

			second, err := service.BulkImport(task.BulkImportDTO{Names: []string{"A1", "B2"}})
			Expect(err).NotTo(HaveOccurred())
			Expect(second.AddedCount).To(Equal(0))
			Expect(second.Duplicates).To(Equal(2))

			tasks, _ := repo.List()
			Expect(tasks).To(HaveLen(2))
		})

		It("rejects an empty submission", func() {
			_, err := service.BulkImport(task.BulkImportDTO{})
			Expect(err).To(HaveOccurred())
		})
	})

	Describe("CreateTask", func() {
		It("rejects a name that already exists ignoring case", func() {
			_, err := service.CreateTask(task.CreateTaskDTO{Name: "Report"})
			Expect(err).NotTo(HaveOccurred())

			_, err = service.CreateTask(task.CreateTaskDTO{Name: "  report  "})
			Expect(err).To(HaveOccurred())

			appErr, ok := internal.IsAppError(err)
			Expect(ok).To(BeTrue())
			Expect(appErr.Code).To(Equal(internal.ErrCodeDuplicateTaskName))
		})

		It("defaults status to pending", func() {
			created, err := service.CreateTask(task.CreateTaskDTO{Name: "Report"})
			Expect(err).NotTo(HaveOccurred())
			Expect(created.Status).To(Equal(task.StatusPending))
		})

		It("rejects an unknown status", func() {
			_, err := service.CreateTask(task.CreateTaskDTO{Name: "Report", Status: "done"})
			Expect(err).To(HaveOccurred())
		})
	})

	Describe("UpdateTask", func() {
		It("returns not found for an unknown id", func() {
			name := "Renamed"
			_, err := service.UpdateTask("missing", task.UpdateTaskDTO{Name: &name})
			Expect(err).To(Equal(internal.ErrTaskNotFound))
		})

		It("allows renaming a task to a different casing of itself", func() {
			created, err := service.CreateTask(task.CreateTaskDTO{Name: "Report"})
			Expect(err).NotTo(HaveOccurred())

			name := "REPORT"
			updated, err := service.UpdateTask(created.ID, task.UpdateTaskDTO{Name: &name})
			Expect(err).NotTo(HaveOccurred())
			Expect(updated.Name).To(Equal("REPORT"))
		})

		It("rejects renaming onto another task's name", func() {
			_, err := service.CreateTask(task.CreateTaskDTO{Name: "First"})
			Expect(err).NotTo(HaveOccurred())
			second, err := service.CreateTask(task.CreateTaskDTO{Name: "Second"})
			Expect(err).NotTo(HaveOccurred())

			name := "first"
			_, err = service.UpdateTask(second.ID, task.UpdateTaskDTO{Name: &name})
			Expect(err).To(HaveOccurred())
		})
	})

	Describe("DeleteTask", func() {
		It("removes an existing task", func() {
			created, err := service.CreateTask(task.CreateTaskDTO{Name: "Doomed"})
			Expect(err).NotTo(HaveOccurred())

			Expect(service.DeleteTask(created.ID)).To(Succeed())

			_, err = service.GetTask(created.ID)
			Expect(err).To(Equal(internal.ErrTaskNotFound))
		})

		It("returns not found for an unknown id", func() {
			Expect(service.DeleteTask("missing")).To(Equal(internal.ErrTaskNotFound))
		})
	})
})
