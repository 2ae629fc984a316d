package service

import "animal-market/internal/apperr"

// AssertOwnerOrRole 资源归属校验：本人放行，或 caller 角色在 allowedRoles 内放行。
// 所有针对 Listing / 图片 / 收藏的变更操作统一走这里，不再各处内联判断。
func AssertOwnerOrRole(resourceOwnerID, callerID uint, callerRole string, allowedRoles ...string) error {
	if resourceOwnerID == callerID {
		return nil
	}
	for _, r := range allowedRoles {
		if callerRole == r {
			return nil
		}
	}
	return apperr.Forbidden("not allowed")
}
