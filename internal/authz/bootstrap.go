package authz

import (
	"fmt"
	"strings"
)

// BootstrapRegistryPolicies 按后台注册表同步内置角色策略
// 注册表中已不存在的 role: 策略会被移除，其他主体的策略保持不变。
func (s *Service) BootstrapRegistryPolicies() error {
	if s == nil || s.enforcer == nil {
		return fmt.Errorf("authz service unavailable")
	}
	for _, role := range []string{RoleAdmin, RoleStaff} {
		if _, err := s.EnsureRole(role); err != nil {
			return err
		}
	}

	changed := false
	desired := make(map[string]struct{})
	for _, policy := range RegistryPolicies() {
		action := NormalizeAction(policy.Action)
		if action == "" {
			return fmt.Errorf("registry policy action is required")
		}
		object := NormalizeObject(policy.Object)
		desired[policyKey(policy.Subject, object, action)] = struct{}{}
		added, err := s.enforcer.AddPolicy(policy.Subject, object, action)
		if err != nil {
			return fmt.Errorf("add registry policy failed: %w", err)
		}
		if added {
			changed = true
		}
	}

	removed, err := s.pruneRolePolicies(desired)
	if err != nil {
		return err
	}
	if changed || removed {
		return s.saveAndReload()
	}
	return nil
}

// pruneRolePolicies 删除不在 desired 中的 role: 策略
func (s *Service) pruneRolePolicies(desired map[string]struct{}) (bool, error) {
	rules, err := s.enforcer.GetPolicy()
	if err != nil {
		return false, fmt.Errorf("list policies failed: %w", err)
	}
	stale := make([][]string, 0)
	for _, rule := range rules {
		if len(rule) < 3 || !strings.HasPrefix(rule[0], rolePrefix) {
			continue
		}
		if _, ok := desired[policyKey(rule[0], rule[1], rule[2])]; ok {
			continue
		}
		stale = append(stale, []string{rule[0], rule[1], rule[2]})
	}

	removedAny := false
	for _, rule := range stale {
		removed, err := s.enforcer.RemovePolicy(rule[0], rule[1], rule[2])
		if err != nil {
			return removedAny, fmt.Errorf("remove stale policy failed: %w", err)
		}
		if removed {
			removedAny = true
		}
	}
	return removedAny, nil
}

func policyKey(subject, object, action string) string {
	return subject + " " + object + " " + action
}
