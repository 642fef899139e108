package rbac

import (
	"testing"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
)

func TestRBAC(t *testing.T) {
	RegisterFailHandler(Fail)
	RunSpecs(t, "RBAC Suite")
}

var _ = Describe("Permission matrix", func() {
	It("is total for every role and resource", func() {
		for _, role := range Roles {
			for _, resource := range Resources {
				perm := PermissionFor(role, resource)
				Expect(perm).To(BeElementOf(PermissionNone, PermissionRead, PermissionWrite),
					"role %s resource %s", role, resource)
			}
		}
	})

	It("grants read wherever it grants write", func() {
		for _, role := range Roles {
			for _, resource := range Resources {
				if Evaluate(role, resource, ActionWrite) {
					Expect(Evaluate(role, resource, ActionRead)).To(BeTrue(),
						"role %s resource %s: write implies read", role, resource)
				}
			}
		}
	})

	It("defaults unknown roles and resources to none", func() {
		Expect(Evaluate(Role("ghost"), ResourceTasks, ActionRead)).To(BeFalse())
		Expect(Evaluate(RoleAdmin, Resource("widgets"), ActionRead)).To(BeFalse())
		Expect(PermissionFor(Role("ghost"), Resource("widgets"))).To(Equal(PermissionNone))
	})

	Describe("Evaluate", func() {
		It("lets admins write everything", func() {
			for _, resource := range Resources {
				Expect(Evaluate(RoleAdmin, resource, ActionWrite)).To(BeTrue())
			}
		})

		It("keeps managers out of role management", func() {
			Expect(Evaluate(RoleManager, ResourceRoles, ActionRead)).To(BeFalse())
			Expect(Evaluate(RoleManager, ResourceRoles, ActionWrite)).To(BeFalse())
		})

		It("lets managers write goals but only read tasks", func() {
			Expect(Evaluate(RoleManager, ResourceGoals, ActionWrite)).To(BeTrue())
			Expect(Evaluate(RoleManager, ResourceTasks, ActionRead)).To(BeTrue())
			Expect(Evaluate(RoleManager, ResourceTasks, ActionWrite)).To(BeFalse())
		})

		It("denies employees any notifications access", func() {
			Expect(Evaluate(RoleEmployee, ResourceNotifications, ActionRead)).To(BeFalse())
			Expect(Evaluate(RoleEmployee, ResourceNotifications, ActionWrite)).To(BeFalse())
		})

		It("lets employees read but not write tasks and employees", func() {
			Expect(Evaluate(RoleEmployee, ResourceTasks, ActionRead)).To(BeTrue())
			Expect(Evaluate(RoleEmployee, ResourceTasks, ActionWrite)).To(BeFalse())
			Expect(Evaluate(RoleEmployee, ResourceEmployees, ActionRead)).To(BeTrue())
			Expect(Evaluate(RoleEmployee, ResourceEmployees, ActionWrite)).To(BeFalse())
		})
	})
})
