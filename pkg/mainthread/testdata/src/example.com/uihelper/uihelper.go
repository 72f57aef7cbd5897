package uihelper

// VerifyAccess panics unless called on the UI thread.
//
//mainthread:asserts
func VerifyAccess() {}
