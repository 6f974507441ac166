package i18n

var messagesEN = map[string]string{
	"error.bad_request":       "Invalid request.",
	"error.unauthorized":      "Please log in first.",
	"error.forbidden":         "You do not have permission to perform this action.",
	"error.not_found":         "The requested resource was not found.",
	"error.internal":          "Something went wrong. Please try again later.",
	"error.too_many_requests": "Too many attempts. Please try again later.",

	"error.user_id_invalid":      "Invalid user id.",
	"error.user_id_type_invalid": "Invalid user id type.",
	"error.id_invalid":           "Invalid id.",
	"error.token_invalid":        "Your session is invalid or has expired. Please log in again.",
	"error.user_not_found":       "User not found.",
	"error.user_delete_self":     "You cannot delete your own account.",
	"error.post_not_found":       "Post not found.",
	"error.comment_not_found":    "Comment not found.",
	"error.category_not_found":   "Category not found.",
	"error.tag_not_found":        "Tag not found.",
	"error.entity_not_found":     "Unknown admin entity.",

	"error.email_exists":             "A user with that email already exists.",
	"error.username_exists":          "A user with that username already exists.",
	"error.slug_exists":              "This slug is already in use.",
	"error.name_exists":              "This name is already in use.",
	"error.email_invalid":            "Enter a valid email address.",
	"error.username_invalid":         "Enter a valid username. It may contain only letters, numbers, and @/./+/-/_ characters.",
	"error.password_mismatch":        "The two password fields didn't match.",
	"error.password_weak":            "This password is too weak.",
	"error.password_min_length":      "This password is too short. It must contain at least %d characters.",
	"error.password_require_upper":   "The password must contain an uppercase letter.",
	"error.password_require_lower":   "The password must contain a lowercase letter.",
	"error.password_require_number":  "The password must contain a number.",
	"error.password_require_special": "The password must contain a special character.",
	"error.content_required":         "Comment content cannot be empty.",
	"error.parent_invalid":           "The comment you are replying to does not belong to this post.",
	"error.role_invalid":             "Invalid role.",
	"error.invalid_input":            "Please correct the errors below.",

	"error.invalid_credentials": "Please enter a correct username and password.",
	"error.account_inactive":    "This account is inactive. Please verify your email address first.",
	"error.resend_too_frequent": "A verification email was sent recently. Please wait before requesting another.",
	"error.captcha_required":    "Please complete the captcha.",
	"error.captcha_invalid":     "The captcha is incorrect.",
	"error.captcha_unavailable": "Captcha is not enabled.",

	"error.verify_link_invalid":   "Invalid verification link.",
	"error.verify_link_expired":   "Verification link has expired.",
	"error.email_delivery_failed": "We could not send the verification email. Please try again later.",

	"error.jwt_secret_missing":     "Authentication is not configured.",
	"error.auth_header_missing":    "Please log in first.",
	"error.auth_header_invalid":    "Invalid authorization header.",
	"error.token_revoked":          "Your session has ended. Please log in again.",
	"error.user_disabled":          "This account has been disabled.",
	"error.rate_limited":           "Too many requests. Please retry in %d seconds.",
	"error.rate_limit_unavailable": "Rate limiting is temporarily unavailable.",

	"error.comment_edit_denied":   "You cannot edit this comment.",
	"error.comment_delete_denied": "You cannot delete this comment.",
	"error.moderation_denied":     "Only staff members can moderate comments.",
	"error.post_create_denied":    "Only authors can publish posts.",
	"error.post_edit_denied":      "You cannot edit this post.",
	"error.post_delete_denied":    "You cannot delete this post.",

	"message.register_check_email":     "Please check your email to verify your account.",
	"message.register_delivery_failed": "Your account was created but the verification email could not be sent. Please request a new verification link.",
	"message.verification_resent":      "If an unverified account exists for that email, a new verification link has been sent.",
	"message.email_verified":           "Email verified successfully! You can now log in.",
	"message.login_success":            "Welcome back, %s!",
	"message.logged_out":               "You have been logged out.",
	"message.profile_updated":          "Your profile has been updated!",
	"message.comment_published":        "Comment published successfully!",
	"message.comment_pending":          "Your comment is awaiting moderation.",
	"message.comment_updated":          "Comment updated!",
	"message.comment_deleted":          "Comment deleted.",
	"message.comment_approved":         "Comment approved.",
	"message.comments_approved":        "%d comments approved.",
	"message.comments_disapproved":     "%d comments disapproved.",
	"message.post_created":             "Post created.",
	"message.post_updated":             "Post updated.",
	"message.post_deleted":             "Post deleted.",
	"message.saved":                    "Saved.",
	"message.deleted":                  "Deleted.",
}
